package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "reader@example.com", false},
		{"valid with plus", "reader+books@example.com", false},
		{"empty", "", true},
		{"missing domain", "reader@", true},
		{"missing at", "reader.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "bookworm_42", false},
		{"minimum length", "abc", false},
		{"too short", "ab", true},
		{"too long", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true},
		{"invalid characters", "book worm", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("expected 10-character password to pass, got %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected short password to fail")
	}
	if err := ValidatePassword(""); err == nil {
		t.Error("expected empty password to fail")
	}
}

func TestValidationErrorNamesField(t *testing.T) {
	err := ValidateTopicName("")
	vErr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if vErr.Field != "name" {
		t.Errorf("expected field 'name', got %q", vErr.Field)
	}
}
