package broker

import "testing"

func TestNormalizeSOAPTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "offset without colon gets one inserted",
			raw:  "2023-01-02T10:30:00.000000+0500",
			want: "2023-01-02T10:30:00.000000+05:00",
		},
		{
			name: "offset with colon passes through",
			raw:  "2023-01-02T10:30:00.000000-06:00",
			want: "2023-01-02T10:30:00.000000-06:00",
		},
		{
			name: "zulu renders as explicit zero offset",
			raw:  "2023-01-02T10:30:00Z",
			want: "2023-01-02T10:30:00.000000+00:00",
		},
		{
			name: "naive timestamp interpreted as UTC",
			raw:  "2023-01-02T10:30:00",
			want: "2023-01-02T10:30:00.000000+00:00",
		},
		{
			name: "space separator",
			raw:  "2023-06-07 08:09:10.123456+02:00",
			want: "2023-06-07T08:09:10.123456+02:00",
		},
		{
			name: "short fraction padded to microseconds",
			raw:  "2023-01-02T10:30:00.5+0500",
			want: "2023-01-02T10:30:00.500000+05:00",
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  " 2023-01-02T10:30:00Z ",
			want: "2023-01-02T10:30:00.000000+00:00",
		},
		{
			name:    "garbage",
			raw:     "last tuesday",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeSOAPTime(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("got %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
