package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func pngPayload(size int) []byte {
	buf := make([]byte, size)
	copy(buf, pngHeader)
	return buf
}

func TestEvaluate_FirstFailurePerFieldWins(t *testing.T) {
	errs, err := Evaluate(context.Background(),
		Field("username",
			Required("", "Username cannot be null"),
			LengthBetween("", 4, 32, "Must have min 4 and max 32 characters"),
		),
	)
	require.NoError(t, err)
	require.NotNil(t, errs)

	// only the first failing rule's message is recorded
	assert.Equal(t, "Username cannot be null", errs.Get("username"))
	assert.Equal(t, 1, errs.Len())
}

func TestEvaluate_IndependentFieldsAllCollected(t *testing.T) {
	errs, err := Evaluate(context.Background(),
		Field("username", Required("", "Username cannot be null")),
		Field("email", Required("", "E-mail cannot be null")),
		Field("password", Required("secret123", "Password cannot be null")),
	)
	require.NoError(t, err)
	require.NotNil(t, errs)

	assert.Equal(t, 2, errs.Len())
	assert.Equal(t, "Username cannot be null", errs.Get("username"))
	assert.Equal(t, "E-mail cannot be null", errs.Get("email"))
	assert.Empty(t, errs.Get("password"))
}

func TestEvaluate_AllPassReturnsNil(t *testing.T) {
	errs, err := Evaluate(context.Background(),
		Field("username",
			Required("user1", "Username cannot be null"),
			LengthBetween("user1", 4, 32, "Must have min 4 and max 32 characters"),
		),
	)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, 0, errs.Len())
}

func TestEvaluate_LookupErrorAborts(t *testing.T) {
	lookupErr := errors.New("db is down")
	taken := func(ctx context.Context, value string) (bool, error) {
		return false, lookupErr
	}

	_, err := Evaluate(context.Background(),
		Field("email", Unique("user1@mail.com", taken, "E-mail in use")),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr)
}

func TestLengthBetween(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"empty passes", "", true},
		{"too short", "usr", false},
		{"lower bound", "user", true},
		{"upper bound", string(bytes.Repeat([]byte("a"), 32)), true},
		{"too long", string(bytes.Repeat([]byte("a"), 33)), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs, err := Evaluate(context.Background(),
				Field("username", LengthBetween(tc.value, 4, 32, "Must have min 4 and max 32 characters")),
			)
			require.NoError(t, err)
			if tc.valid {
				assert.Equal(t, 0, errs.Len())
			} else {
				assert.Equal(t, "Must have min 4 and max 32 characters", errs.Get("username"))
			}
		})
	}
}

func TestEmailRule(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"user1@mail.com", true},
		{"mail.com", false},
		{"user1@", false},
		{"", true}, // Required handles emptiness
	}
	for _, tc := range tests {
		errs, err := Evaluate(context.Background(),
			Field("email", Email(tc.value, "E-mail is not valid")),
		)
		require.NoError(t, err)
		if tc.valid {
			assert.Equal(t, 0, errs.Len(), "value %q", tc.value)
		} else {
			assert.Equal(t, "E-mail is not valid", errs.Get("email"), "value %q", tc.value)
		}
	}
}

func TestUniqueRule(t *testing.T) {
	taken := func(ctx context.Context, value string) (bool, error) {
		return value == "taken@mail.com", nil
	}

	errs, err := Evaluate(context.Background(),
		Field("email", Unique("taken@mail.com", taken, "E-mail in use")),
	)
	require.NoError(t, err)
	assert.Equal(t, "E-mail in use", errs.Get("email"))

	errs, err = Evaluate(context.Background(),
		Field("email", Unique("fresh@mail.com", taken, "E-mail in use")),
	)
	require.NoError(t, err)
	assert.Equal(t, 0, errs.Len())
}

func TestMaxBytes_InclusiveBoundary(t *testing.T) {
	limit := 2 * 1024 * 1024

	errs, err := Evaluate(context.Background(),
		Field("image", MaxBytes(pngPayload(limit), limit, "Your profile image cannot be bigger than 2MB")),
	)
	require.NoError(t, err)
	assert.Equal(t, 0, errs.Len(), "exactly 2 MiB must pass")

	errs, err = Evaluate(context.Background(),
		Field("image", MaxBytes(pngPayload(limit+1), limit, "Your profile image cannot be bigger than 2MB")),
	)
	require.NoError(t, err)
	assert.Equal(t, "Your profile image cannot be bigger than 2MB", errs.Get("image"))
}

func TestContentType_SniffsRealType(t *testing.T) {
	allowed := []string{"image/png", "image/jpeg"}

	jpegPayload := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 64)...)

	tests := []struct {
		name    string
		payload []byte
		valid   bool
	}{
		{"png", pngPayload(128), true},
		{"jpeg", jpegPayload, true},
		{"plain text", []byte("just some text pretending to be file.png"), false},
		{"pdf", []byte("%PDF-1.4 fake document"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs, err := Evaluate(context.Background(),
				Field("image", ContentType(tc.payload, allowed, "Only JPEG or PNG files allowed")),
			)
			require.NoError(t, err)
			if tc.valid {
				assert.Equal(t, 0, errs.Len())
			} else {
				assert.Equal(t, "Only JPEG or PNG files allowed", errs.Get("image"))
			}
		})
	}
}

func TestFieldErrors_MarshalPreservesInsertionOrder(t *testing.T) {
	errs := NewFieldErrors()
	errs.Add("username", "Username cannot be null")
	errs.Add("email", "E-mail cannot be null")
	errs.Add("username", "ignored duplicate")

	data, err := json.Marshal(errs)
	require.NoError(t, err)

	// username was declared first and must come first, even though a plain
	// map would sort email ahead of it
	assert.Equal(t, `{"username":"Username cannot be null","email":"E-mail cannot be null"}`, string(data))
	assert.Equal(t, []string{"username", "email"}, errs.Fields())
}
