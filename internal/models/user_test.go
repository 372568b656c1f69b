package models

import (
	"testing"
	"time"
)

func TestUser_IsVip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name   string
		expiry *time.Time
		want   bool
	}{
		{
			name:   "No expiry set",
			expiry: nil,
			want:   false,
		},
		{
			name:   "Expiry in the future",
			expiry: &future,
			want:   true,
		},
		{
			name:   "Expiry in the past",
			expiry: &past,
			want:   false,
		},
		{
			name:   "Expiry exactly now",
			expiry: &now,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{VipExpireAt: tt.expiry}
			if got := user.IsVip(now); got != tt.want {
				t.Errorf("IsVip() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextVipExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	active := now.AddDate(0, 0, 10)
	expired := now.AddDate(0, 0, -5)

	tests := []struct {
		name    string
		current *time.Time
		days    int
		want    time.Time
	}{
		{
			name:    "No window starts from now",
			current: nil,
			days:    30,
			want:    now.AddDate(0, 0, 30),
		},
		{
			name:    "Expired window restarts from now",
			current: &expired,
			days:    30,
			want:    now.AddDate(0, 0, 30),
		},
		{
			name:    "Active window stacks remaining time",
			current: &active,
			days:    30,
			want:    now.AddDate(0, 0, 40),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextVipExpiry(tt.current, tt.days, now)
			if !got.Equal(tt.want) {
				t.Errorf("NextVipExpiry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_Sanitize(t *testing.T) {
	user := &User{
		ID:               7,
		Username:         "player",
		HashedPassword:   "$2a$10$secret",
		SecurityQuestion: "First pet?",
		SecurityAnswer:   "rex",
		Points:           150,
	}

	sanitized := user.Sanitize()

	if sanitized.HashedPassword != "" {
		t.Errorf("Sanitize() kept password hash %q", sanitized.HashedPassword)
	}
	if sanitized.SecurityAnswer != "" {
		t.Errorf("Sanitize() kept security answer %q", sanitized.SecurityAnswer)
	}
	if sanitized.SecurityQuestion != "First pet?" {
		t.Errorf("Sanitize() dropped security question")
	}
	if sanitized.Points != 150 || sanitized.Username != "player" {
		t.Error("Sanitize() altered public fields")
	}
	if user.HashedPassword == "" {
		t.Error("Sanitize() mutated the original user")
	}
}

func TestUser_BeforeSave(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{
			name:    "Valid user",
			user:    User{Username: "player", Points: 10},
			wantErr: false,
		},
		{
			name:    "Empty username",
			user:    User{Username: "", Points: 0},
			wantErr: true,
		},
		{
			name:    "Negative points",
			user:    User{Username: "player", Points: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGame_Sanitize(t *testing.T) {
	game := &Game{
		ID:              3,
		GameType:        "rpg",
		GameName:        "Starfall",
		DownloadURL:     "https://example.com/starfall.zip",
		Password:        "dl-pass",
		ExtractPassword: "zip-pass",
		Note:            "internal note",
	}

	sanitized := game.Sanitize()

	if sanitized.DownloadURL != "" || sanitized.Password != "" || sanitized.ExtractPassword != "" {
		t.Error("Sanitize() leaked access payload")
	}
	if sanitized.Note != "" {
		t.Error("Sanitize() leaked note")
	}
	if sanitized.ID != 3 || sanitized.GameName != "Starfall" || sanitized.GameType != "rpg" {
		t.Error("Sanitize() dropped public fields")
	}
}
