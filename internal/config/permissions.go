package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

// Capability names a gated view or action.
type Capability string

const (
	CapViewSchedule Capability = "view_schedule"
	CapViewTasks    Capability = "view_tasks"
	CapViewReport   Capability = "view_report"
	CapExportReport Capability = "export_report"
	CapAssignIssue  Capability = "assign_issue"
)

var knownCapabilities = map[Capability]bool{
	CapViewSchedule: true,
	CapViewTasks:    true,
	CapViewReport:   true,
	CapExportReport: true,
	CapAssignIssue:  true,
}

// Permissions is the role to capability table.
type Permissions struct {
	Roles map[model.Role][]Capability `toml:"roles"`
}

// DefaultPermissions grants capabilities cumulatively by access level.
func DefaultPermissions() *Permissions {
	guest := []Capability{CapViewSchedule}
	reporter := append(append([]Capability{}, guest...), CapViewTasks, CapViewReport)
	developer := append(append([]Capability{}, reporter...), CapExportReport, CapAssignIssue)
	return &Permissions{Roles: map[model.Role][]Capability{
		model.RoleGuest:      guest,
		model.RoleReporter:   reporter,
		model.RoleDeveloper:  developer,
		model.RoleMaintainer: developer,
		model.RoleOwner:      developer,
	}}
}

// LoadPermissions reads a TOML table such as
//
//	[roles]
//	guest = ["view_schedule"]
//	developer = ["view_schedule", "view_tasks", "assign_issue"]
//
// An empty path yields DefaultPermissions. Roles missing from the file get
// no capabilities.
func LoadPermissions(path string) (*Permissions, error) {
	if path == "" {
		return DefaultPermissions(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading permissions %s: %w", path, err)
	}
	return ParsePermissions(data)
}

// ParsePermissions decodes and validates a TOML permissions table.
func ParsePermissions(data []byte) (*Permissions, error) {
	var p Permissions
	if _, err := toml.Decode(string(data), &p); err != nil {
		return nil, fmt.Errorf("parsing permissions: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("validating permissions: %w", err)
	}
	return &p, nil
}

func (p *Permissions) validate() error {
	if len(p.Roles) == 0 {
		return fmt.Errorf("no roles defined")
	}
	roles := make([]string, 0, len(p.Roles))
	for r := range p.Roles {
		roles = append(roles, string(r))
	}
	sort.Strings(roles)
	for _, r := range roles {
		switch model.Role(r) {
		case model.RoleGuest, model.RoleReporter, model.RoleDeveloper, model.RoleMaintainer, model.RoleOwner:
		default:
			return fmt.Errorf("unknown role %q", r)
		}
		for _, c := range p.Roles[model.Role(r)] {
			if !knownCapabilities[c] {
				return fmt.Errorf("role %s: unknown capability %q", r, c)
			}
		}
	}
	return nil
}

// Allows is the guard (role, capability) -> allow/deny.
func (p *Permissions) Allows(role model.Role, c Capability) bool {
	if p == nil {
		return false
	}
	for _, granted := range p.Roles[role] {
		if granted == c {
			return true
		}
	}
	return false
}
