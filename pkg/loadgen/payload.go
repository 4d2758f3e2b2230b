package loadgen

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// Proof types exercised by the simulated users.
const (
	ProofTypeLogin       = "login"
	ProofTypeTransaction = "wire_transfer"
	ProofTypeBiometric   = "biometric_approval"
)

// ProofBundle mirrors the wire format the verification API expects.
type ProofBundle struct {
	Context   string `json:"context"`
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
	Algorithm string `json:"algorithm,omitempty"`
}

// VerifyRequest is the body of POST /api/verify-proof.
type VerifyRequest struct {
	ProofBundle ProofBundle    `json:"proof_bundle"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// BatchVerifyRequest is the body of POST /api/batch-verify-proofs.
type BatchVerifyRequest struct {
	Proofs   []ProofBundle `json:"proofs"`
	ClientID string        `json:"client_id"`
}

// payloadGenerator builds realistic proof payloads for one simulated user.
// All randomness flows through the injected rng so runs are reproducible.
type payloadGenerator struct {
	userID       string
	sessionToken string
	rng          *rand.Rand
}

func newPayloadGenerator(rng *rand.Rand) *payloadGenerator {
	userID := fmt.Sprintf("user-%d", 1000+rng.Intn(9000))
	tokenSrc := fmt.Sprintf("%s-%d", userID, time.Now().Unix())
	sum := sha256.Sum256([]byte(tokenSrc))
	return &payloadGenerator{
		userID:       userID,
		sessionToken: hex.EncodeToString(sum[:])[:32],
		rng:          rng,
	}
}

func (g *payloadGenerator) verifyRequest(proofType string) VerifyRequest {
	now := time.Now().Unix()

	var context map[string]any
	switch proofType {
	case ProofTypeTransaction:
		context = map[string]any{
			"action":      ProofTypeTransaction,
			"user_id":     g.userID,
			"amount":      1000 + g.rng.Intn(999000),
			"destination": fmt.Sprintf("account-%d", 10000+g.rng.Intn(90000)),
			"timestamp":   now,
			"request_id":  fmt.Sprintf("txn-%d", 100000+g.rng.Intn(900000)),
		}
	case ProofTypeBiometric:
		context = map[string]any{
			"action":             ProofTypeBiometric,
			"user_id":            g.userID,
			"transaction_amount": 100000 + g.rng.Intn(9900000),
			"timestamp":          now,
			"device_id":          fmt.Sprintf("device-%d", 1000+g.rng.Intn(9000)),
		}
	default:
		context = map[string]any{
			"action":     ProofTypeLogin,
			"user_id":    g.userID,
			"timestamp":  now,
			"ip_address": fmt.Sprintf("192.168.1.%d", 1+g.rng.Intn(254)),
		}
	}

	// Map keys marshal in sorted order, so the signature is stable for a
	// given context.
	contextJSON, _ := json.Marshal(context)
	sig := sha256.Sum256([]byte(string(contextJSON) + "-" + g.sessionToken))

	return VerifyRequest{
		ProofBundle: ProofBundle{
			Context:   string(contextJSON),
			Signature: hex.EncodeToString(sig[:]),
			PublicKey: "pk-" + g.userID,
			Algorithm: "ECDSA-SHA256",
		},
		Metadata: map[string]any{
			"client_version": "1.0.0",
			"timestamp":      now,
		},
	}
}

func (g *payloadGenerator) batchRequest(size int) BatchVerifyRequest {
	proofs := make([]ProofBundle, 0, size)
	for i := 0; i < size; i++ {
		req := g.verifyRequest(ProofTypeLogin)
		proofs = append(proofs, req.ProofBundle)
	}
	return BatchVerifyRequest{
		Proofs:   proofs,
		ClientID: "batch-client-" + g.userID,
	}
}
