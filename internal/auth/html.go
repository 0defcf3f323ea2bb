package auth

import (
	"fmt"
	"html"
)

// loginSuccessHTML is served to the browser after the callback delivered a
// valid authorization code.
const loginSuccessHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>mittvibes CLI - Authentication Complete</title>
    <style>
        body {
            font-family: 'SF Mono', Consolas, 'Liberation Mono', Menlo, monospace;
            padding: 3rem 2rem;
            background: #000;
            color: #fff;
            margin: 0;
            display: flex;
            flex-direction: column;
            align-items: center;
            justify-content: center;
            min-height: 100vh;
            text-align: center;
        }
        .success {
            font-size: 1.5rem;
            font-weight: bold;
            margin-bottom: 1rem;
        }
        .checkmark {
            font-size: 2rem;
            margin-right: 0.5rem;
        }
        .instruction {
            font-size: 1rem;
            color: #ccc;
            margin-top: 1rem;
        }
        .brand {
            color: #666;
            font-size: 0.9rem;
            margin-top: 2rem;
        }
    </style>
</head>
<body>
    <div class="success"><span class="checkmark">&#10003;</span>Authentication Successful</div>
    <div class="instruction">You can close this window and return to the CLI.</div>
    <div class="brand">mittvibes CLI</div>
</body>
</html>`

// loginFailureHTMLTemplate is served when the callback carried an error or no
// code. The single placeholder receives an HTML-escaped reason.
const loginFailureHTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>mittvibes CLI - Authentication Failed</title>
    <style>
        body {
            font-family: system-ui, sans-serif;
            padding: 2rem;
            background: #000;
            color: #fff;
        }
    </style>
</head>
<body>
    <h2>Authentication Failed</h2>
    <p>%s</p>
    <p>You can close this window and return to the CLI.</p>
</body>
</html>`

// loginFailureHTML renders the failure page for the given reason. The reason
// is escaped; it may contain provider-supplied text.
func loginFailureHTML(reason string) string {
	return fmt.Sprintf(loginFailureHTMLTemplate, html.EscapeString(reason))
}
