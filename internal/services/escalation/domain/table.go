package domain

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"dutybot/internal/core/classify"
	"dutybot/internal/platform/civil"
	notifydom "dutybot/internal/services/notify/domain"

	perr "dutybot/internal/platform/errors"
)

// triggerSpec is the on-disk trigger shape
type triggerSpec struct {
	Name       string `yaml:"name"`
	At         string `yaml:"at"`
	Category   string `yaml:"category"`
	Tier       string `yaml:"tier"`
	Audience   string `yaml:"audience"`
	Cohort     string `yaml:"cohort"`
	Target     string `yaml:"target"`
	Template   string `yaml:"template"`
	Digest     bool   `yaml:"digest"`
	AlwaysSend bool   `yaml:"always_send"`
}

type tableSpec struct {
	Triggers []triggerSpec `yaml:"triggers"`
}

// LoadTriggers reads a full replacement trigger table from a YAML file
func LoadTriggers(path string) ([]Trigger, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Storagef("read trigger table %s: %v", path, err)
	}
	var spec tableSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, perr.InvalidArgf("parse trigger table %s: %v", path, err)
	}
	if len(spec.Triggers) == 0 {
		return nil, perr.InvalidArgf("trigger table %s has no triggers", path)
	}

	out := make([]Trigger, 0, len(spec.Triggers))
	seen := map[string]struct{}{}
	for i, ts := range spec.Triggers {
		tr, err := ts.toTrigger()
		if err != nil {
			return nil, perr.InvalidArgf("trigger table %s entry %d: %v", path, i, err)
		}
		if _, dup := seen[tr.Name]; dup {
			return nil, perr.InvalidArgf("trigger table %s: duplicate name %q", path, tr.Name)
		}
		seen[tr.Name] = struct{}{}
		out = append(out, tr)
	}
	SortTriggers(out)
	return out, nil
}

func (ts triggerSpec) toTrigger() (Trigger, error) {
	if ts.Name == "" {
		return Trigger{}, perr.InvalidArgf("missing name")
	}
	at, err := civil.ParseTimeOfDay(ts.At)
	if err != nil {
		return Trigger{}, err
	}
	cat := classify.Category(ts.Category)
	if !classify.Valid(cat) {
		return Trigger{}, perr.InvalidArgf("unknown category %q", ts.Category)
	}
	aud := notifydom.Audience(ts.Audience)
	if !notifydom.Valid(aud) {
		return Trigger{}, perr.InvalidArgf("unknown audience %q", ts.Audience)
	}
	cohort := Cohort(ts.Cohort)
	switch cohort {
	case "":
		cohort = CohortAll
	case CohortAll, CohortGroup, CohortSolo:
	default:
		return Trigger{}, perr.InvalidArgf("unknown cohort %q", ts.Cohort)
	}
	target := Target(ts.Target)
	switch target {
	case "":
		target = TargetToday
	case TargetToday, TargetYesterday:
	default:
		return Trigger{}, perr.InvalidArgf("unknown target %q", ts.Target)
	}
	if ts.Template == "" {
		return Trigger{}, perr.InvalidArgf("missing template")
	}
	return Trigger{
		Name:     ts.Name,
		At:       at,
		Category: cat,
		Tier:     ts.Tier,
		Audience: aud,
		Cohort:   cohort,
		Target:   target,
		Template: ts.Template,
		Digest:   ts.Digest, AlwaysSend: ts.AlwaysSend,
	}, nil
}

// SortTriggers orders a table by fire time, then name
func SortTriggers(trs []Trigger) {
	sort.Slice(trs, func(i, j int) bool {
		a, b := trs[i], trs[j]
		if a.At.Hour != b.At.Hour {
			return a.At.Hour < b.At.Hour
		}
		if a.At.Minute != b.At.Minute {
			return a.At.Minute < b.At.Minute
		}
		return a.Name < b.Name
	})
}
