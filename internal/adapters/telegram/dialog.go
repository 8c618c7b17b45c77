package telegram

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"dutybot/internal/platform/logger"

	perr "dutybot/internal/platform/errors"
	rosterdom "dutybot/internal/services/roster/domain"
	scheddom "dutybot/internal/services/schedule/domain"
)

// dialogAPI is the slice of the client the dialog needs
type dialogAPI interface {
	SendKeyboard(ctx context.Context, chatID int64, text string, kb InlineKeyboardMarkup) (int64, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, kb *InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
}

const (
	cbEditPrefix = "edit_"
	cbDayPrefix  = "day_"
	cbSave       = "save_days"
	cbRestart    = "restart_schedule"
)

// dialogState is one in-flight /schedule conversation
type dialogState struct {
	handle    string
	days      map[int]struct{}
	messageID int64
}

// Dialog drives the interactive /schedule flow: pick a person, toggle
// weekdays, save. State lives in memory per chat; saves go through the
// schedule service
type Dialog struct {
	api      dialogAPI
	roster   rosterdom.ReaderPort
	patterns scheddom.PatternsPort
	log      logger.Logger

	mu     sync.Mutex
	states map[int64]*dialogState
}

// NewDialog constructs the schedule dialog
func NewDialog(api dialogAPI, roster rosterdom.ReaderPort, patterns scheddom.PatternsPort) *Dialog {
	return &Dialog{
		api:      api,
		roster:   roster,
		patterns: patterns,
		log:      *logger.Named("dialog"),
		states:   map[int64]*dialogState{},
	}
}

// Start opens (or restarts) the person picker in chatID
func (d *Dialog) Start(ctx context.Context, chatID int64) error {
	people := d.roster.AllPersons()
	if len(people) == 0 {
		_, err := d.api.SendKeyboard(ctx, chatID, "Ростер пуст, настраивать некого.", InlineKeyboardMarkup{})
		return err
	}

	msgID, err := d.api.SendKeyboard(ctx, chatID, "Чей график настраиваем?", personKeyboard(people))
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.states[chatID] = &dialogState{messageID: msgID}
	d.mu.Unlock()
	return nil
}

// HandleCallback advances the dialog on a button press
func (d *Dialog) HandleCallback(ctx context.Context, cb *CallbackQuery) error {
	if err := d.api.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		d.log.Warn().Err(err).Msg("answer callback failed")
	}
	if cb.Message == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID

	d.mu.Lock()
	st, ok := d.states[chatID]
	d.mu.Unlock()
	if !ok {
		// stale button from a previous process lifetime
		return nil
	}

	switch {
	case strings.HasPrefix(cb.Data, cbEditPrefix):
		return d.pickPerson(ctx, chatID, st, strings.TrimPrefix(cb.Data, cbEditPrefix))
	case strings.HasPrefix(cb.Data, cbDayPrefix):
		return d.toggleDay(ctx, chatID, st, strings.TrimPrefix(cb.Data, cbDayPrefix))
	case cb.Data == cbSave:
		return d.save(ctx, chatID, st)
	case cb.Data == cbRestart:
		return d.Start(ctx, chatID)
	}
	return nil
}

func (d *Dialog) pickPerson(ctx context.Context, chatID int64, st *dialogState, handle string) error {
	if _, ok := d.roster.Lookup(handle); !ok {
		return perr.NotFoundf("handle %q not on roster", handle)
	}

	days := map[int]struct{}{}
	if p := d.patterns.Pattern(handle); p != nil {
		for _, day := range p.Days() {
			days[day] = struct{}{}
		}
	} else {
		// default working pattern as the starting point
		for day := 0; day < 5; day++ {
			days[day] = struct{}{}
		}
	}

	d.mu.Lock()
	st.handle = handle
	st.days = days
	d.mu.Unlock()

	return d.renderDays(ctx, chatID, st)
}

func (d *Dialog) toggleDay(ctx context.Context, chatID int64, st *dialogState, raw string) error {
	day, err := strconv.Atoi(raw)
	if err != nil || day < 0 || day > 6 {
		return perr.InvalidArgf("bad day callback %q", raw)
	}

	d.mu.Lock()
	if st.handle == "" {
		d.mu.Unlock()
		return nil
	}
	if _, on := st.days[day]; on {
		delete(st.days, day)
	} else {
		st.days[day] = struct{}{}
	}
	d.mu.Unlock()

	return d.renderDays(ctx, chatID, st)
}

func (d *Dialog) save(ctx context.Context, chatID int64, st *dialogState) error {
	d.mu.Lock()
	handle := st.handle
	days := sortedDays(st.days)
	d.mu.Unlock()
	if handle == "" {
		return nil
	}

	if err := d.patterns.SetPattern(ctx, handle, days); err != nil {
		return err
	}
	d.log.Info().Str("handle", handle).Ints("days", days).Msg("pattern saved")

	text := "Сохранено. " + d.roster.DisplayName(handle) + ": " + dayList(days)
	kb := InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "Выбрать другого", CallbackData: cbRestart}},
	}}
	return d.api.EditMessageText(ctx, chatID, st.messageID, text, &kb)
}

func (d *Dialog) renderDays(ctx context.Context, chatID int64, st *dialogState) error {
	d.mu.Lock()
	handle := st.handle
	days := make(map[int]struct{}, len(st.days))
	for day := range st.days {
		days[day] = struct{}{}
	}
	msgID := st.messageID
	d.mu.Unlock()

	text := "Рабочие дни для " + d.roster.DisplayName(handle) + ":"
	kb := dayKeyboard(days)
	return d.api.EditMessageText(ctx, chatID, msgID, text, &kb)
}

func personKeyboard(people []rosterdom.Person) InlineKeyboardMarkup {
	rows := make([][]InlineKeyboardButton, 0, len(people))
	for _, p := range people {
		label := p.DisplayName
		if label == "" {
			label = p.Handle
		}
		rows = append(rows, []InlineKeyboardButton{
			{Text: label, CallbackData: cbEditPrefix + p.Handle},
		})
	}
	return InlineKeyboardMarkup{InlineKeyboard: rows}
}

func dayKeyboard(days map[int]struct{}) InlineKeyboardMarkup {
	row := make([]InlineKeyboardButton, 0, 7)
	for day := 0; day < 7; day++ {
		label := scheddom.WeekdayShort[day]
		if _, on := days[day]; on {
			label = "✅ " + label
		}
		row = append(row, InlineKeyboardButton{
			Text:         label,
			CallbackData: cbDayPrefix + strconv.Itoa(day),
		})
	}
	return InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		row[:4], row[4:],
		{{Text: "Сохранить", CallbackData: cbSave}},
	}}
}

func sortedDays(days map[int]struct{}) []int {
	out := make([]int, 0, len(days))
	for day := range days {
		out = append(out, day)
	}
	sort.Ints(out)
	return out
}

func dayList(days []int) string {
	if len(days) == 0 {
		return "без рабочих дней (неактивен)"
	}
	labels := make([]string, len(days))
	for i, day := range days {
		labels[i] = scheddom.WeekdayShort[day]
	}
	return strings.Join(labels, ", ")
}
