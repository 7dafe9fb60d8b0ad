package goToken

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goToken/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodedPayload struct {
	App string          `json:"app"`
	UID string          `json:"uid"`
	Exp json.RawMessage `json:"exp"`
}

func newEdKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func newTestIssuer(t *testing.T, b *Builder) (*Issuer, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	iss, err := b.WithLogger(logger).Build()
	require.NoError(t, err)
	t.Cleanup(iss.Close)
	return iss, hook
}

func splitToken(t *testing.T, token string) []string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3, "token %q", token)
	for i, p := range parts {
		require.NotEmpty(t, p, "segment %d is empty", i)
		require.NotContains(t, p, "=", "segment %d is padded", i)
	}
	return parts
}

func decode(t *testing.T, seg string) []byte {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	require.NoError(t, err)
	return raw
}

func TestGenerateProducesThreeSegmentToken(t *testing.T) {
	pub, priv := newEdKeys(t)
	iss, _ := newTestIssuer(t, New())

	userID, appID := uuid.NewString(), uuid.NewString()
	before := time.Now()
	token, err := iss.Generate(userID, appID, priv)
	require.NoError(t, err)

	parts := splitToken(t, token)
	assert.Equal(t, `{"alg":"EdDSA","typ":"JWT"}`, string(decode(t, parts[0])))

	var payload decodedPayload
	require.NoError(t, json.Unmarshal(decode(t, parts[1]), &payload))
	assert.Equal(t, userID, payload.UID)
	assert.Equal(t, appID, payload.App)

	var expText string
	require.NoError(t, json.Unmarshal(payload.Exp, &expText))
	exp, err := time.Parse(jwt.TimestampLayout, expText)
	require.NoError(t, err)
	assert.True(t, exp.After(before), "exp %s should be after call time %s", exp, before)
	assert.False(t, exp.After(time.Now().Add(ValidityWindow)), "exp %s beyond validity window", exp)

	sig := decode(t, parts[2])
	assert.True(t, ed25519.Verify(pub, []byte(parts[0]+"."+parts[1]), sig))
}

func TestGenerateExampleWithFixedClock(t *testing.T) {
	_, priv := newEdKeys(t)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	iss, _ := newTestIssuer(t, New().WithClock(ClockFunc(func() time.Time { return now })))

	token, err := iss.Generate("u-1", "a-1", priv)
	require.NoError(t, err)

	parts := splitToken(t, token)
	assert.Equal(t, `{"app":"a-1","uid":"u-1","exp":"2026-10-19T12:30:00.000000000Z"}`, string(decode(t, parts[1])))
}

func TestIssueNumericDate(t *testing.T) {
	_, priv := newEdKeys(t)
	now := time.Unix(1790000000, 700_000_000)
	iss, _ := newTestIssuer(t, New().
		WithClock(ClockFunc(func() time.Time { return now })).
		WithExpirationFormat(jwt.ExpNumericDate))

	tok, err := iss.Issue("u-1", "a-1", priv)
	require.NoError(t, err)

	assert.Equal(t, `{"app":"a-1","uid":"u-1","exp":1790001800}`, string(decode(t, tok.Payload)))
	assert.Equal(t, time.Unix(1790001800, 0).UTC(), tok.ExpiresAt)
}

func TestIssueExpiresAtMatchesPayload(t *testing.T) {
	_, priv := newEdKeys(t)
	now := time.Date(2026, 3, 1, 8, 15, 30, 123456789, time.FixedZone("IST", 19800))
	iss, _ := newTestIssuer(t, New().WithClock(ClockFunc(func() time.Time { return now })))

	tok, err := iss.Issue("u", "a", priv)
	require.NoError(t, err)

	var payload decodedPayload
	require.NoError(t, json.Unmarshal(decode(t, tok.Payload), &payload))
	assert.Equal(t, `"`+tok.ExpiresAt.Format(jwt.TimestampLayout)+`"`, string(payload.Exp))
	assert.True(t, tok.ExpiresAt.Equal(now.Add(30*time.Minute)))
	assert.Equal(t, tok.String(), tok.Header+"."+tok.Payload+"."+tok.Signature)
}

func TestGenerateRejectsEmptyIdentifiers(t *testing.T) {
	_, priv := newEdKeys(t)
	var clockReads int
	iss, hook := newTestIssuer(t, New().WithClock(ClockFunc(func() time.Time {
		clockReads++
		return time.Now()
	})))

	cases := []struct {
		name   string
		userID string
		appID  string
		want   error
	}{
		{"empty user", "", "a-1", ErrUserIDRequired},
		{"empty app", "u-1", "", ErrAppIDRequired},
		{"both empty", "", "", ErrUserIDRequired},
		{"invalid utf8 user", "u-\xff", "a-1", ErrIdentifierEncoding},
		{"invalid utf8 app", "u-1", "a-\xfe", ErrIdentifierEncoding},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := iss.Generate(tc.userID, tc.appID, priv)
			require.Error(t, err)
			assert.Empty(t, token)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrValidation)
			assert.NotErrorIs(t, err, ErrSigning)
			assert.True(t, IsValidation(err))
			assert.False(t, IsSigning(err))
		})
	}

	assert.Zero(t, clockReads, "validation must happen before the clock is read")
	assert.Equal(t, uint64(len(cases)), iss.MetricsSnapshot().Counters[MetricTokenValidationFailure])
	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, entry.Level, "validation failures are not operational errors")
	}
}

func TestGenerateValidatesBeforeKey(t *testing.T) {
	iss, _ := newTestIssuer(t, New())

	_, err := iss.Generate("", "a-1", nil)
	assert.True(t, IsValidation(err), "empty user id with nil key should be a validation error, got %v", err)
}

func TestGenerateIncompatibleKeyIsSigningError(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	iss, hook := newTestIssuer(t, New())

	token, err := iss.Generate("u-1", "a-1", ecKey)
	require.Error(t, err)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrSigning)
	assert.ErrorIs(t, err, jwt.ErrInvalidKeyType)
	assert.NotErrorIs(t, err, ErrValidation)

	var serr *SigningError
	require.True(t, errors.As(err, &serr))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "token signing failed", entry.Message)
	assert.Equal(t, "u-1", entry.Data["user_id"])
	assert.Equal(t, "*ecdsa.PrivateKey", entry.Data["key_type"])
	assert.Equal(t, uint64(1), iss.MetricsSnapshot().Counters[MetricTokenSigningFailure])
}

func TestGenerateSigningErrorKinds(t *testing.T) {
	pub, _ := newEdKeys(t)
	iss, _ := newTestIssuer(t, New())

	keys := map[string]interface{}{
		"nil":         nil,
		"short":       ed25519.PrivateKey([]byte{1, 2, 3}),
		"public half": pub,
		"hmac secret": []byte("secret"),
	}
	for name, key := range keys {
		_, err := iss.Generate("u-1", "a-1", key)
		assert.True(t, IsSigning(err), "%s: expected signing error, got %v", name, err)
	}
}

func TestGenerateNoCaching(t *testing.T) {
	_, priv := newEdKeys(t)
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	iss, _ := newTestIssuer(t, New().WithClock(ClockFunc(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})))

	first, err := iss.Generate("u-1", "a-1", priv)
	require.NoError(t, err)
	second, err := iss.Generate("u-1", "a-1", priv)
	require.NoError(t, err)

	p1, p2 := splitToken(t, first), splitToken(t, second)
	assert.Equal(t, p1[0], p2[0])
	assert.NotEqual(t, p1[1], p2[1], "exp should differ")
	assert.NotEqual(t, p1[2], p2[2], "signature should differ")
}

func TestGenerateConcurrent(t *testing.T) {
	pub, priv := newEdKeys(t)
	iss, _ := newTestIssuer(t, New().WithLatencyHistograms(true))

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				userID := uuid.NewString()
				token, err := iss.Generate(userID, "app", priv)
				if err != nil {
					errs <- err
					continue
				}
				parts := strings.Split(token, ".")
				sig, err := base64.RawURLEncoding.DecodeString(parts[2])
				if err != nil || !ed25519.Verify(pub, []byte(parts[0]+"."+parts[1]), sig) {
					errs <- errors.New("token from worker failed verification")
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	snap := iss.MetricsSnapshot()
	assert.Equal(t, uint64(workers*perWorker), snap.Counters[MetricTokenIssued])

	var observed uint64
	for _, v := range snap.Histograms[MetricIssueLatency] {
		observed += v
	}
	assert.Equal(t, uint64(workers*perWorker), observed)
}

func TestNilIssuer(t *testing.T) {
	var iss *Issuer
	_, err := iss.Generate("u", "a", nil)
	assert.ErrorIs(t, err, ErrIssuerNotReady)
	assert.Zero(t, iss.AuditDropped())
	assert.Empty(t, iss.MetricsSnapshot().Counters)
	assert.Equal(t, IssuerReport{}, iss.Report())
	iss.Close()
}

func TestNewIssuerDefaults(t *testing.T) {
	_, priv := newEdKeys(t)
	iss := NewIssuer()
	defer iss.Close()

	_, err := iss.Generate("u-1", "a-1", priv)
	require.NoError(t, err)

	report := iss.Report()
	assert.Equal(t, "EdDSA", report.Algorithm)
	assert.Equal(t, "JWT", report.TokenType)
	assert.Equal(t, 30*time.Minute, report.ValidityWindow)
	assert.Equal(t, "rfc3339", report.ExpirationFormat)
	assert.False(t, report.AuditEnabled)
	assert.True(t, report.MetricsEnabled)
}
