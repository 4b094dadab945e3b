package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/relaunchapp/followup-service/internal/entity"
)

// Placeholder fallbacks when the prospect has no value for a token.
const (
	fallbackName    = "there"
	fallbackProject = "your project"
	fallbackCompany = "your company"
)

var (
	tokenName    = regexp.MustCompile(`(?i){name}`)
	tokenProject = regexp.MustCompile(`(?i){project}`)
	tokenCompany = regexp.MustCompile(`(?i){company}`)
)

// RenderedEmail is the subject/body pair after substitution, with the
// body wrapped in the branded HTML shell.
type RenderedEmail struct {
	Subject string
	HTML    string
}

// Render substitutes {name}, {project} and {company} case-insensitively
// with the prospect's values. Token sets are disjoint so replacement
// order does not matter.
func Render(template *entity.Template, prospect *entity.Prospect) RenderedEmail {
	name := prospect.Name
	if name == "" {
		name = fallbackName
	}
	project := prospect.Project
	if project == "" {
		project = fallbackProject
	}
	company := prospect.Company
	if company == "" {
		company = fallbackCompany
	}

	subject := substitute(template.Subject, name, project, company)
	body := substitute(template.Body, name, project, company)

	return RenderedEmail{
		Subject: subject,
		HTML:    WrapHTML(body, time.Now()),
	}
}

func substitute(text, name, project, company string) string {
	text = tokenName.ReplaceAllLiteralString(text, name)
	text = tokenProject.ReplaceAllLiteralString(text, project)
	text = tokenCompany.ReplaceAllLiteralString(text, company)
	return text
}

// WrapHTML puts the rendered content into the branded email document.
func WrapHTML(content string, now time.Time) string {
	html := strings.Replace(emailShell, "{content}", content, 1)
	return strings.Replace(html, "{year}", strconv.Itoa(now.Year()), 1)
}

const emailShell = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body {
      font-family: 'Helvetica Neue', Arial, sans-serif;
      line-height: 1.6;
      color: #2D3748;
      margin: 0;
      padding: 0;
      background-color: #F7FAFC;
    }
    .container {
      max-width: 600px;
      margin: 0 auto;
      padding: 40px 20px;
    }
    .card {
      background: #FFFFFF;
      border-radius: 12px;
      box-shadow: 0 4px 6px rgba(0, 0, 0, 0.05);
      padding: 32px;
      margin-bottom: 30px;
    }
    .content {
      color: #4A5568;
      font-size: 16px;
      line-height: 1.8;
    }
    .signature {
      margin-top: 32px;
      padding-top: 24px;
      border-top: 1px solid #E2E8F0;
      color: #718096;
      font-style: italic;
    }
    .footer {
      text-align: center;
      color: #A0AEC0;
      font-size: 12px;
      margin-top: 30px;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="card">
      <div class="content">
        {content}
      </div>
      <div class="signature">
        Best regards,<br>
        The ReLaunch Team
      </div>
    </div>
    <div class="footer">
      <p>This email was sent automatically from the ReLaunch platform.</p>
      <p>&copy; {year} ReLaunch. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`
