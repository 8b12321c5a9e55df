package binding_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SenaryLabs/identity-binding/internal/agent"
	"github.com/SenaryLabs/identity-binding/internal/api"
	"github.com/SenaryLabs/identity-binding/internal/api/router"
	"github.com/SenaryLabs/identity-binding/internal/binding"
	"github.com/SenaryLabs/identity-binding/internal/config"
	"github.com/SenaryLabs/identity-binding/internal/exchange"
	"github.com/SenaryLabs/identity-binding/internal/types"
)

// Fixture envelope: [h'a10127', {}, h'68656c6c6f', 64 bytes of 0xab].
const (
	fixtureEnvelopeHex     = "84" + "43a10127" + "a0" + "4568656c6c6f" + "5840"
	fixtureSigStructureHex = "84" + "6a5369676e617475726531" + "43a10127" + "40" + "4568656c6c6f"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()

	cfg := config.DefaultServerConfigFromEnv()
	cfg.Exchange.Enabled = false
	cfg.Management.Secret = ""

	s := api.NewServer(cfg)
	s.Clock = api.NewClock(t)
	s.Agent = agent.NewHTTPClient(agent.Options{Endpoint: "http://localhost:1"})
	s.Assembler = binding.NewAssembler(agent.NewStateResolver(s.Agent), s.Clock)
	s.ExchangeStore = exchange.NewMemoryStore()
	s.ExchangeLoop = exchange.NewLoop(s.Agent, s.ExchangeStore, s.Clock, exchange.Config{})

	router.Init(s)

	return s
}

func postJSON(s *api.Server, path string, body map[string]interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(data)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func completeProofBody() map[string]interface{} {
	return map[string]interface{}{
		"bindingSaid":         "EBINDING",
		"issuerAid":           "EISSUER",
		"holderAid":           "EHOLDER",
		"canonicalMessage":    "bind EHOLDER to addr1",
		"cardanoAddress":      "01" + strings.Repeat("00", 28),
		"coseSignatureHex":    fixtureEnvelopeHex + strings.Repeat("ab", 64),
		"keriSignature":       "0B" + strings.Repeat("A", 86),
		"cardanoPublicKeyHex": strings.Repeat("cd", 32),
		"holderPublicKeyHex":  strings.Repeat("ef", 32),
	}
}

func TestPostBindingProof(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(s, "/api/v1/binding/proof", completeProofBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response types.BindingProofResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	require.NotNil(t, response.SigStructureHex)
	assert.Equal(t, fixtureSigStructureHex, *response.SigStructureHex)
	require.NotNil(t, response.ProofCborHex)
	assert.NotEmpty(t, *response.ProofCborHex)
	require.NotNil(t, response.CardanoPublicKeyHex)
	assert.Equal(t, strings.Repeat("cd", 32), *response.CardanoPublicKeyHex)
	require.NotNil(t, response.HolderPublicKeyHex)
	assert.Equal(t, strings.Repeat("ef", 32), *response.HolderPublicKeyHex)
	require.NotNil(t, response.CreatedAt)
	assert.Positive(t, *response.CreatedAt)
}

func TestPostBindingProofIsDeterministic(t *testing.T) {
	s := newTestServer(t)

	first := postJSON(s, "/api/v1/binding/proof", completeProofBody())
	second := postJSON(s, "/api/v1/binding/proof", completeProofBody())
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b types.BindingProofResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))

	// the mock clock is frozen, so the full proof must be byte-identical
	assert.Equal(t, *a.ProofCborHex, *b.ProofCborHex)
}

func TestPostBindingProofValidationError(t *testing.T) {
	s := newTestServer(t)

	body := completeProofBody()
	delete(body, "keriSignature")

	rec := postJSON(s, "/api/v1/binding/proof", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var response types.PublicHTTPValidationError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotEmpty(t, response.ValidationErrors)
	assert.Equal(t, "keriSignature", *response.ValidationErrors[0].Key)
}

func TestPostBindingProofRejectsBadEnvelope(t *testing.T) {
	s := newTestServer(t)

	body := completeProofBody()
	body["coseSignatureHex"] = "not-hex"

	rec := postJSON(s, "/api/v1/binding/proof", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var response types.PublicHTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Invalid Cardano signature", *response.Title)
}

func TestPostBindingProofRejectsMissingKeys(t *testing.T) {
	s := newTestServer(t)

	body := completeProofBody()
	delete(body, "cardanoPublicKeyHex")

	rec := postJSON(s, "/api/v1/binding/proof", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var response types.PublicHTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Incomplete binding request", *response.Title)
}

func TestPostVerify(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(s, "/api/v1/binding/verify", map[string]interface{}{
		"coseSignatureHex": fixtureEnvelopeHex + strings.Repeat("ab", 64),
		"keriSignature":    "0B" + strings.Repeat("A", 86),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var response types.VerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotNil(t, response.Valid)
	assert.True(t, *response.Valid)
	assert.Equal(t, fixtureSigStructureHex, response.SigStructureHex)
	assert.Equal(t, "68656c6c6f", response.PayloadHex)
}

func TestPostVerifyReportsInvalidMaterial(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(s, "/api/v1/binding/verify", map[string]interface{}{
		"coseSignatureHex": fixtureEnvelopeHex + strings.Repeat("ab", 64),
		"keriSignature":    "Znotasignature",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var response types.VerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotNil(t, response.Valid)
	assert.False(t, *response.Valid)
	assert.NotEmpty(t, response.Reason)
}
