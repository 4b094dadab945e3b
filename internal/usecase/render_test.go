package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/relaunchapp/followup-service/internal/entity"
)

func TestRenderSubstitutesAllTokens(t *testing.T) {
	template := &entity.Template{
		Subject: "Hi {name}, re {project}",
		Body:    "Hello {Name}, about {PROJECT} at {company}.",
	}
	prospect := &entity.Prospect{
		Name:    "Ada",
		Project: "Analytical Engine",
		Company: "Babbage & Co",
	}

	rendered := Render(template, prospect)

	assert.Equal(t, "Hi Ada, re Analytical Engine", rendered.Subject)
	assert.Contains(t, rendered.HTML, "Hello Ada, about Analytical Engine at Babbage & Co.")
}

func TestRenderFallsBackOnEmptyFields(t *testing.T) {
	template := &entity.Template{
		Subject: "Hi {name}, re {project}",
		Body:    "Checking in about {company}.",
	}
	prospect := &entity.Prospect{Name: "Ada"}

	rendered := Render(template, prospect)

	assert.Equal(t, "Hi Ada, re your project", rendered.Subject)
	assert.Contains(t, rendered.HTML, "Checking in about your company.")
	assert.NotContains(t, rendered.Subject, "{")
	assert.NotContains(t, rendered.HTML, "{name}")
}

func TestRenderEmptyName(t *testing.T) {
	template := &entity.Template{Subject: "Hi {name}", Body: "Hi {name}"}
	rendered := Render(template, &entity.Prospect{})

	assert.Equal(t, "Hi there", rendered.Subject)
}

func TestWrapHTML(t *testing.T) {
	html := WrapHTML("<p>hello</p>", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, html, "<p>hello</p>")
	assert.Contains(t, html, "2025 ReLaunch")
	assert.NotContains(t, html, "{content}")
	assert.NotContains(t, html, "{year}")
}
