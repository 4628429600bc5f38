package services

import (
	"regexp"
	"testing"

	"fundledger/internal/models"
	"fundledger/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestAttemptLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, "partner123")
	user := testutil.CreateTestUserWithUsername(t, db, "Alice", "Alice", models.RoleAdmin)

	t.Run("valid", func(t *testing.T) {
		got, err := svc.AttemptLogin("Alice", testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.ID)
		}
	})

	t.Run("username_is_case_insensitive", func(t *testing.T) {
		got, err := svc.AttemptLogin("aLICE", testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.AttemptLogin("alice", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_user_fails_the_same_way", func(t *testing.T) {
		_, err := svc.AttemptLogin("nobody", testutil.TestPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("empty_credentials", func(t *testing.T) {
		_, err := svc.AttemptLogin("", "")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestGetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, "partner123")
	admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

	got, err := svc.GetUserByID(admin.ID)
	testutil.AssertNoError(t, err)
	if got.Username != admin.Username {
		t.Errorf("expected %s, got %s", admin.Username, got.Username)
	}

	_, err = svc.GetUserByID(missingID)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")

	_, err = svc.GetPartnerByID(admin.ID)
	testutil.AssertAppError(t, err, "PARTNER_NOT_FOUND")
}

func TestCreatePartner(t *testing.T) {
	t.Run("generates_username_and_default_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, "starter-pass")

		partner, err := svc.CreatePartner("Mary Jane Watson")
		testutil.AssertNoError(t, err)

		if partner.Role != models.RolePartner {
			t.Errorf("expected partner role, got %s", partner.Role)
		}
		if partner.Name != "Mary Jane Watson" {
			t.Errorf("expected name to be kept, got %q", partner.Name)
		}
		if !regexp.MustCompile(`^maryjanewatson\d{1,3}$`).MatchString(partner.Username) {
			t.Errorf("unexpected username %q", partner.Username)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(partner.Password), []byte("starter-pass")); err != nil {
			t.Error("expected default password to be hashed into the record")
		}

		_, err = svc.AttemptLogin(partner.Username, "starter-pass")
		testutil.AssertNoError(t, err)
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, "partner123")

		_, err := svc.CreatePartner("   ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestPartnerUsername(t *testing.T) {
	tests := []struct {
		name   string
		suffix int
		want   string
	}{
		{"Ana", 7, "ana7"},
		{"Mary Jane", 0, "maryjane0"},
		{" Bob\tSmith ", 999, "bobsmith999"},
	}
	for _, tc := range tests {
		if got := PartnerUsername(tc.name, tc.suffix); got != tc.want {
			t.Errorf("PartnerUsername(%q, %d) = %q, want %q", tc.name, tc.suffix, got, tc.want)
		}
	}
}

func TestListPartners(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, "partner123")

	testutil.CreateTestUser(t, db, models.RoleAdmin)
	testutil.CreateTestUserWithUsername(t, db, "zed", "Zed", models.RolePartner)
	testutil.CreateTestUserWithUsername(t, db, "amy", "Amy", models.RolePartner)

	partners, err := svc.ListPartners()
	testutil.AssertNoError(t, err)

	if len(partners) != 2 {
		t.Fatalf("expected 2 partners, got %d", len(partners))
	}
	if partners[0].Name != "Amy" || partners[1].Name != "Zed" {
		t.Errorf("expected partners ordered by name, got %q, %q", partners[0].Name, partners[1].Name)
	}
}

func TestEnsureAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, "partner123")

	admin, err := svc.EnsureAdmin("admin", "secret", "Administrator")
	testutil.AssertNoError(t, err)
	if admin.Role != models.RoleAdmin {
		t.Errorf("expected admin role, got %s", admin.Role)
	}

	again, err := svc.EnsureAdmin("ADMIN", "other", "Someone")
	testutil.AssertNoError(t, err)
	if again.ID != admin.ID {
		t.Error("expected the existing admin to be returned")
	}

	// The original password still works.
	_, err = svc.AttemptLogin("admin", "secret")
	testutil.AssertNoError(t, err)

	_, err = svc.EnsureAdmin("", "secret", "")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}
