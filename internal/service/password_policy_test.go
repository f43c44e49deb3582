package service

import (
	"errors"
	"testing"

	"github.com/foodhub-next/internal/config"
)

func TestValidatePassword(t *testing.T) {
	strict := config.PasswordPolicyConfig{
		MinLength:      10,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}
	cases := []struct {
		name     string
		policy   config.PasswordPolicyConfig
		password string
		wantKey  string
	}{
		{"too short", strict, "Ab1!", "error.password_min_length"},
		{"rune length", config.PasswordPolicyConfig{MinLength: 4}, "épé1", ""},
		{"missing upper", strict, "thieboudienne1!", "error.password_require_upper"},
		{"missing lower", strict, "THIEBOUDIENNE1!", "error.password_require_lower"},
		{"missing number", strict, "Thieboudienne!", "error.password_require_number"},
		{"missing special", strict, "Thieboudienne1", "error.password_require_special"},
		{"all classes", strict, "Thieboudienne1!", ""},
		{"empty policy", config.PasswordPolicyConfig{}, "", ""},
	}
	for _, tc := range cases {
		err := validatePassword(tc.policy, tc.password)
		if tc.wantKey == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		var policyErr passwordPolicyError
		if !errors.As(err, &policyErr) || policyErr.Key() != tc.wantKey {
			t.Fatalf("%s: want key %s got %v", tc.name, tc.wantKey, err)
		}
		if !errors.Is(err, ErrPasswordPolicy) || !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: error should match policy and validation sentinels", tc.name)
		}
	}
}

func TestValidatePasswordMinLengthArgs(t *testing.T) {
	err := validatePassword(config.PasswordPolicyConfig{MinLength: 12}, "court")
	var policyErr passwordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("want passwordPolicyError got %v", err)
	}
	if args := policyErr.Args(); len(args) != 1 || args[0] != 12 {
		t.Fatalf("unexpected args: %v", args)
	}
}
