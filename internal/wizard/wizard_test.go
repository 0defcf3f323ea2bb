package wizard

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/weissaufschwarz/mittvibes/internal/api"
)

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runesMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds one key through Update and returns the resulting model.
func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return model, cmd
}

func testCustomers() []api.Customer {
	return []api.Customer{
		{CustomerID: "c1", Name: "Acme", IsContributor: true},
		{CustomerID: "c2", Name: "Globex", IsContributor: false},
	}
}

func TestWizardContributorGoesToContext(t *testing.T) {
	m := New(context.Background(), nil, testCustomers())

	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // select Acme
	if m.step != stepContext {
		t.Fatalf("step = %v, want stepContext for a contributor org", m.step)
	}
	if m.plan.CustomerID != "c1" {
		t.Errorf("plan customer = %q, want c1", m.plan.CustomerID)
	}
}

func TestWizardNonContributorGoesToOrgAction(t *testing.T) {
	m := New(context.Background(), nil, testCustomers())

	m, _ = press(t, m, keyMsg(tea.KeyDown))  // move to Globex
	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // select it
	if m.step != stepOrgAction {
		t.Fatalf("step = %v, want stepOrgAction for a non-contributor org", m.step)
	}

	// "Select a different organization" loops back without recursing.
	m, _ = press(t, m, keyMsg(tea.KeyDown))
	m, _ = press(t, m, keyMsg(tea.KeyEnter))
	if m.step != stepOrg {
		t.Fatalf("step = %v, want stepOrg after re-selecting", m.step)
	}
}

func TestWizardCustomerContextExistingMode(t *testing.T) {
	m := New(context.Background(), nil, testCustomers())

	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // Acme
	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // customer context
	if m.step != stepMode {
		t.Fatalf("step = %v, want stepMode", m.step)
	}
	if m.plan.ExtensionContext != ContextCustomer {
		t.Errorf("context = %q, want %q", m.plan.ExtensionContext, ContextCustomer)
	}
	if m.plan.ContextID != "c1" {
		t.Errorf("context id = %q, want the customer id", m.plan.ContextID)
	}

	m, _ = press(t, m, keyMsg(tea.KeyDown))  // existing boilerplate
	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // confirm
	if m.step != stepDone {
		t.Fatalf("step = %v, want stepDone", m.step)
	}
	if m.plan.Mode != ModeExisting {
		t.Errorf("mode = %q, want %q", m.plan.Mode, ModeExisting)
	}
}

func TestWizardNewProjectName(t *testing.T) {
	m := New(context.Background(), nil, testCustomers())

	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // Acme
	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // customer context
	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // new project
	if m.step != stepName {
		t.Fatalf("step = %v, want stepName", m.step)
	}

	// An invalid name stays on the step with an error.
	m, _ = press(t, m, runesMsg("Bad_Name"))
	m, _ = press(t, m, keyMsg(tea.KeyEnter))
	if m.step != stepName {
		t.Fatalf("step = %v, want stepName after an invalid name", m.step)
	}
	if m.errText == "" {
		t.Error("invalid name produced no error text")
	}

	// An empty submission falls back to the default name.
	m.nameInput.SetValue("")
	m, _ = press(t, m, keyMsg(tea.KeyEnter))
	if m.step != stepInstall {
		t.Fatalf("step = %v, want stepInstall", m.step)
	}
	if m.plan.ProjectName != "my-mittwald-extension" {
		t.Errorf("project name = %q, want the default", m.plan.ProjectName)
	}
}

func TestWizardDatabaseFlow(t *testing.T) {
	m := New(context.Background(), nil, testCustomers())

	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // Acme
	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // customer context
	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // new project
	m.nameInput.SetValue("my-ext")
	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // name
	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // install deps: yes
	if m.step != stepDatabase {
		t.Fatalf("step = %v, want stepDatabase", m.step)
	}

	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // configure database: yes
	if m.step != stepDatabaseURL {
		t.Fatalf("step = %v, want stepDatabaseURL", m.step)
	}

	// A non-PostgreSQL URL is rejected in place.
	m.dbInput.SetValue("mysql://nope")
	m, _ = press(t, m, keyMsg(tea.KeyEnter))
	if m.step != stepDatabaseURL {
		t.Fatalf("step = %v, want stepDatabaseURL after an invalid URL", m.step)
	}

	m.dbInput.SetValue("postgresql://localhost:5432/dev")
	m, _ = press(t, m, keyMsg(tea.KeyEnter))
	if m.step != stepMigrate {
		t.Fatalf("step = %v, want stepMigrate when deps are installed", m.step)
	}

	m, _ = press(t, m, keyMsg(tea.KeyEnter)) // run migration: yes
	if m.step != stepDone {
		t.Fatalf("step = %v, want stepDone", m.step)
	}
	if !m.plan.InstallDeps || !m.plan.SetupDatabase || !m.plan.RunMigration {
		t.Errorf("plan flags = %+v, want install/database/migration enabled", m.plan)
	}
	if m.plan.DatabaseURL != "postgresql://localhost:5432/dev" {
		t.Errorf("database url = %q", m.plan.DatabaseURL)
	}
}

func TestWizardEscapeAborts(t *testing.T) {
	m := New(context.Background(), nil, testCustomers())

	m, _ = press(t, m, keyMsg(tea.KeyEsc))
	if m.step != stepAborted {
		t.Fatalf("step = %v, want stepAborted after esc", m.step)
	}
}
