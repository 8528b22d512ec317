package integrity

import (
	"regexp"
	"testing"
	"time"

	"notaria-api-server/internal/domerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedService() *Service {
	return &Service{Now: func() time.Time {
		return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	}}
}

func sampleInput() HashInput {
	return HashInput{
		DocumentNumber: "DOC-2026-000001",
		ClientName:     "Juan Pérez",
		ClientRUT:      "123456785",
		DocumentTypeID: "poder-simple",
		CreatedAt:      time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestComputeHashDeterministic(t *testing.T) {
	svc := fixedService()

	first, err := svc.ComputeHash(sampleInput())
	require.NoError(t, err)
	second, err := svc.ComputeHash(sampleInput())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex-encoded SHA-256
}

func TestComputeHashChangesWithAnyField(t *testing.T) {
	svc := fixedService()
	base, err := svc.ComputeHash(sampleInput())
	require.NoError(t, err)

	mutations := map[string]func(*HashInput){
		"documentNumber": func(in *HashInput) { in.DocumentNumber = "DOC-2026-000002" },
		"clientName":     func(in *HashInput) { in.ClientName = "Juana Pérez" },
		"clientRUT":      func(in *HashInput) { in.ClientRUT = "111111111" },
		"documentTypeID": func(in *HashInput) { in.DocumentTypeID = "declaracion-jurada" },
		"createdAt":      func(in *HashInput) { in.CreatedAt = in.CreatedAt.Add(time.Nanosecond) },
	}

	for field, mutate := range mutations {
		in := sampleInput()
		mutate(&in)
		got, err := svc.ComputeHash(in)
		require.NoError(t, err)
		assert.NotEqual(t, base, got, "changing %s must change the hash", field)
	}
}

func TestComputeHashMissingFields(t *testing.T) {
	svc := fixedService()

	in := sampleInput()
	in.ClientName = ""
	_, err := svc.ComputeHash(in)
	assert.True(t, domerr.Is(err, domerr.CodeValidation))

	in = sampleInput()
	in.CreatedAt = time.Time{}
	_, err = svc.ComputeHash(in)
	assert.True(t, domerr.Is(err, domerr.CodeValidation))
}

func TestMintValidationTokenFormat(t *testing.T) {
	svc := fixedService()
	hash, err := svc.ComputeHash(sampleInput())
	require.NoError(t, err)

	token, err := svc.MintValidationToken(hash)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{16}$`), token)
}

// Identical hashes minted twice must still produce distinct public tokens.
func TestMintValidationTokenDistinct(t *testing.T) {
	svc := fixedService()
	hash, err := svc.ComputeHash(sampleInput())
	require.NoError(t, err)

	first, err := svc.MintValidationToken(hash)
	require.NoError(t, err)
	second, err := svc.MintValidationToken(hash)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestMintValidationTokenRequiresHash(t *testing.T) {
	_, err := fixedService().MintValidationToken("")
	assert.True(t, domerr.Is(err, domerr.CodeValidation))
}
