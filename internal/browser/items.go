package browser

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/achneerov/dreamrender/pkg/navigator"
)

type actionItem struct {
	action navigator.Action
}

func (i actionItem) Title() string {
	return firstNonEmpty(i.action.Text, i.action.AriaLabel, i.action.Title, i.action.Label())
}
func (i actionItem) Description() string {
	if i.action.Kind == navigator.KindForm {
		return "submit form"
	}
	return i.action.Kind + " → " + i.action.Key()
}
func (i actionItem) FilterValue() string { return i.action.Label() }

func buildActionItems(in []navigator.Action) []list.Item {
	items := make([]list.Item, 0, len(in))
	for _, a := range in {
		items = append(items, actionItem{action: a})
	}
	return items
}
