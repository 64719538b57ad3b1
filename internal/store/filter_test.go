package store

import "testing"

func TestFilterWhere(t *testing.T) {
	tests := []struct {
		name  string
		f     Filter
		where string
		args  int
	}{
		{name: "all", f: All(), where: "", args: 0},
		{name: "device", f: Device("IBEX"), where: " WHERE device_id = $1", args: 1},
		{
			name:  "device range",
			f:     DeviceRange("IBEX", 10, 20),
			where: " WHERE device_id = $1 AND time >= $2 AND time <= $3",
			args:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.f.where()
			if where != tt.where {
				t.Errorf("where = %q, want %q", where, tt.where)
			}
			if len(args) != tt.args {
				t.Errorf("args = %v, want %d", args, tt.args)
			}
		})
	}
}
