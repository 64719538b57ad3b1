package store

import (
	"fmt"
	"strings"
)

// Filter scopes a query by device and an inclusive [From, To] window on
// the record time. Zero values mean unscoped.
type Filter struct {
	DeviceID string
	From     *int64
	To       *int64
}

// All matches every record.
func All() Filter { return Filter{} }

// Device matches one device.
func Device(id string) Filter { return Filter{DeviceID: id} }

// DeviceRange matches one device within [from, to].
func DeviceRange(id string, from, to int64) Filter {
	return Filter{DeviceID: id, From: &from, To: &to}
}

// where renders the WHERE clause and its positional arguments.
func (f Filter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.DeviceID != "" {
		args = append(args, f.DeviceID)
		conds = append(conds, fmt.Sprintf("device_id = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("time >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("time <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
