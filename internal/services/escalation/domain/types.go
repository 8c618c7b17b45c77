// Package domain holds the trigger table and scheduler ports
package domain

import (
	"dutybot/internal/core/classify"
	"dutybot/internal/platform/civil"
	notifydom "dutybot/internal/services/notify/domain"
)

// Cohort selects which roster slice a trigger covers
type Cohort string

const (
	// CohortAll covers every roster member
	CohortAll Cohort = "all"
	// CohortGroup covers everyone except the designated solo handle
	CohortGroup Cohort = "group"
	// CohortSolo covers only the designated solo handle
	CohortSolo Cohort = "solo"
)

// Target selects which calendar date a trigger examines
type Target string

const (
	// TargetToday examines the fire date
	TargetToday Target = "today"
	// TargetYesterday examines the day before the fire date
	TargetYesterday Target = "yesterday"
)

// Trigger is one scheduled check. Templates use {mentions} for the missing
// members and {date} for the target date
type Trigger struct {
	Name       string
	At         civil.TimeOfDay
	Category   classify.Category
	Tier       string
	Audience   notifydom.Audience
	Cohort     Cohort
	Target     Target
	Template   string
	Digest     bool
	AlwaysSend bool
}

// tod is a compile-time-checked helper for the static table
func tod(h, m int) civil.TimeOfDay { return civil.TimeOfDay{Hour: h, Minute: m} }

// DefaultTriggers is the built-in daily trigger table
func DefaultTriggers() []Trigger {
	return []Trigger{
		{
			Name: "conclusions_early", At: tod(12, 30),
			Category: classify.CategoryConclusion, Tier: "early",
			Audience: notifydom.AudienceMain, Cohort: CohortAll, Target: TargetToday,
			Template: "{mentions} не забудьте сдать выводы до 13:00.",
		},
		{
			Name: "conclusions_warning", At: tod(13, 0),
			Category: classify.CategoryConclusion, Tier: "warning",
			Audience: notifydom.AudienceMain, Cohort: CohortAll, Target: TargetToday,
			Template: "{mentions} время вышло, выводы всё ещё не сданы!",
		},
		{
			Name: "conclusions_escalation", At: tod(13, 10),
			Category: classify.CategoryConclusion, Tier: "escalation",
			Audience: notifydom.AudienceAdmin, Cohort: CohortAll, Target: TargetToday,
			Template: "Не сдали выводы: {mentions}",
		},
		{
			Name: "slices_group_early", At: tod(16, 0),
			Category: classify.CategorySlice, Tier: "early",
			Audience: notifydom.AudienceMain, Cohort: CohortGroup, Target: TargetToday,
			Template: "{mentions} пора сдавать срезы.",
		},
		{
			Name: "slices_group_warning", At: tod(16, 30),
			Category: classify.CategorySlice, Tier: "warning",
			Audience: notifydom.AudienceMain, Cohort: CohortGroup, Target: TargetToday,
			Template: "{mentions} срезы всё ещё не сданы!",
		},
		{
			Name: "slices_group_escalation", At: tod(16, 40),
			Category: classify.CategorySlice, Tier: "escalation",
			Audience: notifydom.AudienceAdmin, Cohort: CohortGroup, Target: TargetToday,
			Template: "Не сдали срезы: {mentions}",
		},
		{
			Name: "slices_solo_early", At: tod(17, 30),
			Category: classify.CategorySlice, Tier: "early",
			Audience: notifydom.AudienceMain, Cohort: CohortSolo, Target: TargetToday,
			Template: "{mentions} пора сдавать срез.",
		},
		{
			Name: "slices_solo_warning", At: tod(17, 50),
			Category: classify.CategorySlice, Tier: "warning",
			Audience: notifydom.AudienceMain, Cohort: CohortSolo, Target: TargetToday,
			Template: "{mentions} срез всё ещё не сдан!",
		},
		{
			Name: "slices_solo_escalation", At: tod(18, 0),
			Category: classify.CategorySlice, Tier: "escalation",
			Audience: notifydom.AudienceAdmin, Cohort: CohortSolo, Target: TargetToday,
			Template: "Не сдал срез: {mentions}",
		},
		{
			Name: "reports_early", At: tod(19, 0),
			Category: classify.CategoryReport, Tier: "early",
			Audience: notifydom.AudienceMain, Cohort: CohortAll, Target: TargetToday,
			Template: "{mentions} не забудьте сдать отчёт за сегодня.",
		},
		{
			Name: "reports_second", At: tod(21, 0),
			Category: classify.CategoryReport, Tier: "second",
			Audience: notifydom.AudienceMain, Cohort: CohortAll, Target: TargetToday,
			Template: "{mentions} напоминаю про отчёт.",
		},
		{
			Name: "reports_deadline", At: tod(22, 40),
			Category: classify.CategoryReport, Tier: "deadline",
			Audience: notifydom.AudienceMain, Cohort: CohortAll, Target: TargetToday,
			Template: "{mentions} отчёт нужно сдать до 23:00!",
		},
		{
			Name: "reports_summary", At: tod(23, 0),
			Category: classify.CategoryReport, Tier: "summary",
			Audience: notifydom.AudienceMain, Cohort: CohortAll, Target: TargetToday,
			Template: "Итог дня. Без отчёта: {mentions}",
		},
		{
			Name: "supervisor_reports_digest", At: tod(5, 0),
			Category: classify.CategoryReport, Tier: "digest",
			Audience: notifydom.AudienceSupervisor, Cohort: CohortAll, Target: TargetYesterday,
			Template: "Отчёты за {date}",
			Digest:   true,
		},
		{
			Name: "supervisor_slices_digest", At: tod(18, 0),
			Category: classify.CategorySlice, Tier: "digest",
			Audience: notifydom.AudienceSupervisor, Cohort: CohortAll, Target: TargetToday,
			Template: "Срезы за {date}",
			Digest:   true, AlwaysSend: true,
		},
	}
}
