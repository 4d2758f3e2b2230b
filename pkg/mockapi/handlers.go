package mockapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Simulated verification failure rates.
const (
	loginFailureRate     = 0.001  // 99.9% success
	biometricFailureRate = 0.0005 // 99.95% success
	batchItemFailureRate = 0.002  // 99.8% per proof in a batch
)

// Extra processing applied on top of the base latency.
const (
	biometricExtraStep = 20 * time.Millisecond // WebAuthn + attestation checks
	batchPerProofCost  = 10 * time.Millisecond
)

type proofBundle struct {
	Context   string `json:"context"`
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
	Algorithm string `json:"algorithm,omitempty"`
}

type verifyRequest struct {
	ProofBundle *proofBundle `json:"proof_bundle"`
}

type batchVerifyRequest struct {
	Proofs   []proofBundle `json:"proofs"`
	ClientID string        `json:"client_id"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// validateVerifyRequest checks the payload structure the way the real
// relay does before touching signature verification.
func validateVerifyRequest(req *verifyRequest) (string, bool) {
	if req == nil || req.ProofBundle == nil {
		return "Missing required field: proof_bundle", false
	}
	if req.ProofBundle.Context == "" {
		return "Missing required field in proof_bundle: context", false
	}
	if req.ProofBundle.Signature == "" {
		return "Missing required field in proof_bundle: signature", false
	}
	return "", true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	processing := s.sim.Sleep(TypeHealth)
	s.state.recordRequest()
	MockRequestsTotal.WithLabelValues("/api/health", "200").Inc()
	MockRequestDuration.WithLabelValues("/api/health").Observe(processing.Seconds())

	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "healthy",
		"timestamp":          time.Now().Format(time.RFC3339Nano),
		"uptime_seconds":     time.Since(s.state.startTime).Seconds(),
		"requests_processed": s.state.snapshot().RequestsProcessed,
		"processing_time_ms": float64(processing.Microseconds()) / 1000.0,
	})
}

func (s *Server) handleVerifyProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	processing := s.sim.Sleep(TypeLogin)
	s.state.recordRequest()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.verifyError(w, "/api/verify-proof", "Payload must be a JSON object")
		return
	}
	if msg, ok := validateVerifyRequest(&req); !ok {
		s.verifyError(w, "/api/verify-proof", msg)
		return
	}

	// The action inside the signed context decides the proof type, and
	// transaction proofs cost more to verify.
	proofType := "unknown"
	var contextObj struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal([]byte(req.ProofBundle.Context), &contextObj); err == nil && contextObj.Action != "" {
		proofType = contextObj.Action
	}
	if proofType == "wire_transfer" {
		if extra := s.sim.Delay(TypeTransaction) - processing; extra > 0 {
			time.Sleep(extra)
			processing += extra
		}
	}

	if s.sim.Roll(loginFailureRate) {
		s.state.recordError()
		MockSimulatedErrors.Inc()
		MockRequestsTotal.WithLabelValues("/api/verify-proof", "400").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"verified":   false,
			"error":      "Signature verification failed",
			"timestamp":  time.Now().Format(time.RFC3339Nano),
			"proof_type": proofType,
		})
		return
	}

	MockRequestsTotal.WithLabelValues("/api/verify-proof", "200").Inc()
	MockRequestDuration.WithLabelValues("/api/verify-proof").Observe(processing.Seconds())
	writeJSON(w, http.StatusOK, map[string]any{
		"verified":           true,
		"timestamp":          time.Now().Format(time.RFC3339Nano),
		"proof_type":         proofType,
		"processing_time_ms": float64(processing.Microseconds()) / 1000.0,
		"verification_id":    "verify-" + uuid.NewString(),
	})
}

func (s *Server) handleVerifyBiometric(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	processing := s.sim.Sleep(TypeBiometric)
	s.state.recordRequest()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.verifyError(w, "/api/verify-biometric-proof", "Payload must be a JSON object")
		return
	}
	if msg, ok := validateVerifyRequest(&req); !ok {
		s.verifyError(w, "/api/verify-biometric-proof", msg)
		return
	}

	// Device attestation and biometric policy checks on top of the
	// signature itself.
	processing += s.sim.SleepFor(biometricExtraStep)

	if s.sim.Roll(biometricFailureRate) {
		s.state.recordError()
		MockSimulatedErrors.Inc()
		MockRequestsTotal.WithLabelValues("/api/verify-biometric-proof", "400").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"verified":  false,
			"error":     "Biometric verification failed",
			"timestamp": time.Now().Format(time.RFC3339Nano),
		})
		return
	}

	MockRequestsTotal.WithLabelValues("/api/verify-biometric-proof", "200").Inc()
	MockRequestDuration.WithLabelValues("/api/verify-biometric-proof").Observe(processing.Seconds())
	writeJSON(w, http.StatusOK, map[string]any{
		"verified":           true,
		"timestamp":          time.Now().Format(time.RFC3339Nano),
		"proof_type":         "biometric",
		"processing_time_ms": float64(processing.Microseconds()) / 1000.0,
		"verification_id":    "bio-verify-" + uuid.NewString(),
		"security_level":     "high",
	})
}

func (s *Server) handleBatchVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	processing := s.sim.Sleep(TypeBatch)
	s.state.recordRequest()

	var req batchVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Proofs == nil {
		s.state.recordError()
		MockRequestsTotal.WithLabelValues("/api/batch-verify-proofs", "400").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":     "proofs field must be an array",
			"timestamp": time.Now().Format(time.RFC3339Nano),
		})
		return
	}

	// Batch processing scales with batch size.
	processing += s.sim.SleepFor(time.Duration(len(req.Proofs)) * batchPerProofCost)

	type failedProof struct {
		Index int    `json:"index"`
		Error string `json:"error"`
	}
	verified := 0
	var failed []failedProof
	for i := range req.Proofs {
		if s.sim.Roll(batchItemFailureRate) {
			failed = append(failed, failedProof{Index: i, Error: "Verification failed"})
			MockSimulatedErrors.Inc()
		} else {
			verified++
		}
	}

	MockRequestsTotal.WithLabelValues("/api/batch-verify-proofs", "200").Inc()
	MockRequestDuration.WithLabelValues("/api/batch-verify-proofs").Observe(processing.Seconds())
	writeJSON(w, http.StatusOK, map[string]any{
		"total_count":        len(req.Proofs),
		"verified_count":     verified,
		"failed_count":       len(failed),
		"failed_proofs":      failed,
		"processing_time_ms": float64(processing.Microseconds()) / 1000.0,
		"timestamp":          time.Now().Format(time.RFC3339Nano),
		"batch_id":           "batch-" + uuid.NewString(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.state.snapshot())
}

func (s *Server) verifyError(w http.ResponseWriter, endpoint, msg string) {
	s.state.recordError()
	MockRequestsTotal.WithLabelValues(endpoint, "400").Inc()
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"verified":  false,
		"error":     msg,
		"timestamp": time.Now().Format(time.RFC3339Nano),
	})
}
