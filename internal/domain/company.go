package domain

import (
	"time"
)

// DefaultTimezone is used when a company has no timezone of its own.
const DefaultTimezone = "America/Sao_Paulo"

// StageNewLeads is the pipeline stage that gates initial-contact SLA
// enforcement. Leads moved out of it are no longer sweeper candidates.
const StageNewLeads = "Novos Leads"

type Company struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Timezone       string          `json:"timezone,omitempty"`
	PipelineStages []PipelineStage `json:"pipeline_stages"`
	BusinessHours  *BusinessHours  `json:"business_hours,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type PipelineStage struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// StageByName returns the first pipeline stage with the given name.
func (c *Company) StageByName(name string) (PipelineStage, bool) {
	for _, s := range c.PipelineStages {
		if s.Name == name {
			return s, true
		}
	}
	return PipelineStage{}, false
}

// Location resolves the company timezone, falling back to DefaultTimezone
// and finally UTC if the zone database has neither.
func (c *Company) Location() *time.Location {
	name := c.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BusinessHours is the weekly open/closed schedule of a company.
// Days is sparse: a missing weekday means closed that day.
type BusinessHours struct {
	Enabled bool                         `json:"enabled"`
	Is247   bool                         `json:"is_24_7"`
	Days    map[time.Weekday]DaySchedule `json:"days,omitempty"`
}

// DaySchedule is a single non-overnight open window, "HH:mm" 24h times.
// Start must be earlier than End; 22:00-06:00 style spans are not supported.
type DaySchedule struct {
	Open  bool   `json:"open"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// AlwaysOpen reports whether the schedule degenerates to plain wall-clock
// time: no config at all, hours disabled, or 24/7.
func (bh *BusinessHours) AlwaysOpen() bool {
	return bh == nil || !bh.Enabled || bh.Is247
}
