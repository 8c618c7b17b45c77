package telegram

import (
	"context"
	"strings"
	"testing"

	"dutybot/internal/core/obligation"
	"dutybot/internal/platform/testkit"

	rosterdom "dutybot/internal/services/roster/domain"
	scheddom "dutybot/internal/services/schedule/domain"
)

type fakeAPI struct {
	sent     []string
	edits    []string
	lastKB   *InlineKeyboardMarkup
	answered []string
	nextID   int64
}

func (f *fakeAPI) SendKeyboard(ctx context.Context, chatID int64, text string, kb InlineKeyboardMarkup) (int64, error) {
	f.sent = append(f.sent, text)
	f.lastKB = &kb
	f.nextID++
	return f.nextID, nil
}

func (f *fakeAPI) EditMessageText(ctx context.Context, chatID, messageID int64, text string, kb *InlineKeyboardMarkup) error {
	f.edits = append(f.edits, text)
	f.lastKB = kb
	return nil
}

func (f *fakeAPI) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	f.answered = append(f.answered, callbackID)
	return nil
}

type fakePatterns struct {
	stored map[string][]int
}

func (f *fakePatterns) Pattern(handle string) obligation.Pattern {
	days, ok := f.stored[handle]
	if !ok {
		return nil
	}
	return obligation.NewPattern(days...)
}

func (f *fakePatterns) Overrides() scheddom.PatternDoc {
	out := scheddom.PatternDoc{}
	for h, d := range f.stored {
		out[h] = d
	}
	return out
}

func (f *fakePatterns) SetPattern(ctx context.Context, handle string, days []int) error {
	if f.stored == nil {
		f.stored = map[string][]int{}
	}
	f.stored[handle] = days
	return nil
}

type dialogRoster struct{ people []rosterdom.Person }

func (r *dialogRoster) AllPersons() []rosterdom.Person { return r.people }

func (r *dialogRoster) DisplayName(handle string) string {
	if p, ok := r.Lookup(handle); ok && p.DisplayName != "" {
		return p.DisplayName
	}
	return handle
}

func (r *dialogRoster) Lookup(handle string) (rosterdom.Person, bool) {
	for _, p := range r.people {
		if p.Handle == handle {
			return p, true
		}
	}
	return rosterdom.Person{}, false
}

func (r *dialogRoster) SoloHandle() string { return "" }

const dialogChat = int64(555)

func newTestDialog() (*Dialog, *fakeAPI, *fakePatterns) {
	api := &fakeAPI{}
	patterns := &fakePatterns{}
	roster := &dialogRoster{people: []rosterdom.Person{
		{Handle: "aslan", DisplayName: "Аслан"},
		{Handle: "marat", DisplayName: "Марат"},
	}}
	return NewDialog(api, roster, patterns), api, patterns
}

func press(t *testing.T, d *Dialog, data string) {
	t.Helper()
	cb := &CallbackQuery{
		ID:      "cb-" + data,
		Data:    data,
		Message: &Message{MessageID: 1, Chat: Chat{ID: dialogChat}},
	}
	if err := d.HandleCallback(context.Background(), cb); err != nil {
		t.Fatalf("HandleCallback(%s): %v", data, err)
	}
}

func TestDialogStartListsPeople(t *testing.T) {
	d, api, _ := newTestDialog()

	if err := d.Start(context.Background(), dialogChat); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("sends = %d", len(api.sent))
	}
	testkit.MustContain(t, api.sent[0], "Чей график")
	if len(api.lastKB.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d", len(api.lastKB.InlineKeyboard))
	}
	if api.lastKB.InlineKeyboard[0][0].CallbackData != "edit_aslan" {
		t.Fatalf("button = %+v", api.lastKB.InlineKeyboard[0][0])
	}
}

func TestDialogFullFlow(t *testing.T) {
	d, api, patterns := newTestDialog()
	_ = d.Start(context.Background(), dialogChat)

	press(t, d, "edit_aslan")
	// default Mon-Fri preselected, toggle Friday off and Saturday on
	press(t, d, "day_4")
	press(t, d, "day_5")
	press(t, d, cbSave)

	got := patterns.stored["aslan"]
	want := []int{0, 1, 2, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("stored = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stored = %v, want %v", got, want)
		}
	}

	last := api.edits[len(api.edits)-1]
	testkit.MustContain(t, last, "Сохранено")
	testkit.MustContain(t, last, "Аслан")
	testkit.MustContain(t, last, "Пн, Вт, Ср, Чт, Сб")
	// restart button offered
	if api.lastKB.InlineKeyboard[0][0].CallbackData != cbRestart {
		t.Fatalf("kb = %+v", api.lastKB)
	}
}

func TestDialogStartsFromStoredOverride(t *testing.T) {
	d, api, patterns := newTestDialog()
	patterns.stored = map[string][]int{"marat": {5, 6}}

	_ = d.Start(context.Background(), dialogChat)
	press(t, d, "edit_marat")

	// weekend days carry the toggle mark
	var marked []string
	for _, row := range api.lastKB.InlineKeyboard {
		for _, btn := range row {
			if strings.HasPrefix(btn.Text, "✅") {
				marked = append(marked, btn.CallbackData)
			}
		}
	}
	if len(marked) != 2 || marked[0] != "day_5" || marked[1] != "day_6" {
		t.Fatalf("marked = %v", marked)
	}
}

func TestDialogSaveEmptyDeactivates(t *testing.T) {
	d, api, patterns := newTestDialog()
	_ = d.Start(context.Background(), dialogChat)

	press(t, d, "edit_aslan")
	for day := 0; day < 5; day++ {
		press(t, d, "day_"+string(rune('0'+day)))
	}
	press(t, d, cbSave)

	if got := patterns.stored["aslan"]; len(got) != 0 {
		t.Fatalf("stored = %v", got)
	}
	testkit.MustContain(t, api.edits[len(api.edits)-1], "неактивен")
}

func TestDialogIgnoresStaleCallback(t *testing.T) {
	d, api, _ := newTestDialog()
	// no Start: state map is empty
	press(t, d, "edit_aslan")
	if len(api.edits) != 0 {
		t.Fatalf("edits = %v", api.edits)
	}
	// the press is still answered to stop the spinner
	if len(api.answered) != 1 {
		t.Fatalf("answered = %v", api.answered)
	}
}

func TestDialogRestart(t *testing.T) {
	d, api, _ := newTestDialog()
	_ = d.Start(context.Background(), dialogChat)
	press(t, d, "edit_aslan")
	press(t, d, cbSave)
	press(t, d, cbRestart)

	testkit.MustContain(t, api.sent[len(api.sent)-1], "Чей график")
}
