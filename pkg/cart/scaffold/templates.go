package scaffold

import (
	"strings"
	"text/template"
)

// Static project files. Only {{.Name}} is substituted.
var (
	readmeTemplate = template.Must(template.New("README.md").Parse(`# {{.Name}}

A CartDark project.

## Build

Open ` + "`{{.Name}}.cart`" + ` in the CartDark IDE.
`))

	inputBindingTemplate = template.Must(template.New("game.input_binding").Parse(`{
  "format": "CART_INPUT_BINDING",
  "version": 1,
  "name": "{{.Name}}",
  "pin_triggers": [],
  "touch_triggers": [],
  "gamepad_triggers": []
}
`))

	collectionTemplate = template.Must(template.New("collection").Parse(`{
  "version": 1,
  "name": "{{.Name}}",
  "components": []
}
`))
)

const ignoreFileText = `# Build output
*.cart.bin
*.pack.lock.json
build/
dist/

# System files
.DS_Store
Thumbs.db

# Local IDE settings
.cartdark/local/
`

const pinsText = `{
  "format": "CART_BOARD_PINS",
  "version": 1,
  "name": "Board Template Pins",
  "pins": [
    { "id": "PA0",  "label": "PA0",  "tags": ["gpio", "exti"] },
    { "id": "PA1",  "label": "PA1",  "tags": ["gpio"] },
    { "id": "PB12", "label": "PB12", "tags": ["gpio"] },
    { "id": "PC13", "label": "PC13", "tags": ["gpio", "wkup"] }
  ]
}
`

func render(t *template.Template, name string) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, struct{ Name string }{Name: name}); err != nil {
		return "", err
	}
	return b.String(), nil
}
