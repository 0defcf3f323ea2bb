package wizard

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	switch m.step {
	case stepOrg:
		b.WriteString(titleStyle.Render("🏢 Select Organization"))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Which organization would you like to create an extension for?"))
		b.WriteString("\n")
		for i, customer := range m.customers {
			badge := noContributorBadgeStyle.Render("(not a contributor)")
			if customer.IsContributor {
				badge = contributorBadgeStyle.Render("(✓ contributor)")
			}
			m.writeOption(&b, i, fmt.Sprintf("%s %s", customer.Name, badge))
		}

	case stepOrgAction:
		b.WriteString(warningStyle.Render(fmt.Sprintf("⚠ %s is not yet a contributor", m.plan.CustomerName)))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Creating extensions requires contributor status."))
		b.WriteString("\n")
		m.writeOption(&b, 0, "Submit interest to become a contributor")
		m.writeOption(&b, 1, "Select a different organization")
		m.writeOption(&b, 2, "Exit and apply manually")

	case stepSubmittingInterest:
		b.WriteString(subtitleStyle.Render("Submitting contributor interest..."))

	case stepInterestResult:
		b.WriteString(titleStyle.Render("✓ Interest Submitted"))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("You will be notified when your application is reviewed."))
		b.WriteString("\n")
		m.writeOption(&b, 0, "Select a different organization")
		m.writeOption(&b, 1, "Exit and wait for approval")

	case stepContext:
		b.WriteString(titleStyle.Render("📍 Extension Context"))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Where should users access your extension?"))
		b.WriteString("\n")
		m.writeOption(&b, 0, "Customer level - available in the organization menu")
		m.writeOption(&b, 1, "Project level - available in individual project menus")

	case stepLoadingProjects:
		b.WriteString(subtitleStyle.Render("Loading your projects..."))

	case stepProject:
		b.WriteString(titleStyle.Render("📂 Select Project"))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Select the project for testing your extension."))
		b.WriteString("\n")
		for i, project := range m.projects {
			m.writeOption(&b, i, fmt.Sprintf("%s (%s)", project.Description, project.ID))
		}

	case stepMode:
		b.WriteString(titleStyle.Render("🚀 Project Mode"))
		b.WriteString("\n")
		m.writeOption(&b, 0, "Start a new project")
		m.writeOption(&b, 1, "Continue with an existing boilerplate")

	case stepName:
		b.WriteString(titleStyle.Render("📦 Project Name"))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("What is the name of your extension project?"))
		b.WriteString("\n")
		b.WriteString(m.nameInput.View())
		b.WriteString("\n")

	case stepInstall:
		b.WriteString(titleStyle.Render("📥 Dependencies"))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Install dependencies now? (pnpm install)"))
		b.WriteString("\n")
		m.writeOption(&b, 0, "Yes")
		m.writeOption(&b, 1, "No")

	case stepDatabase:
		b.WriteString(titleStyle.Render("🗄  Database Configuration"))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Configure the PostgreSQL database now?"))
		b.WriteString("\n")
		m.writeOption(&b, 0, "Yes")
		m.writeOption(&b, 1, "No")

	case stepDatabaseURL:
		b.WriteString(titleStyle.Render("🗄  Database URL"))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Enter your PostgreSQL connection URL (non-pooling):"))
		b.WriteString("\n")
		b.WriteString(m.dbInput.View())
		b.WriteString("\n")

	case stepMigrate:
		b.WriteString(titleStyle.Render("🗄  Database Migration"))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Generate the Prisma client and run the initial migration?"))
		b.WriteString("\n")
		m.writeOption(&b, 0, "Yes")
		m.writeOption(&b, 1, "No")

	case stepDone, stepAborted:
		return ""
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + m.errText))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ move · enter select · esc abort"))
	b.WriteString("\n")
	return b.String()
}

// writeOption renders a single selectable row.
func (m Model) writeOption(b *strings.Builder, index int, label string) {
	if index == m.cursor {
		b.WriteString(selectedItemStyle.Render("› " + label))
	} else {
		b.WriteString(itemStyle.Render(label))
	}
	b.WriteString("\n")
}
