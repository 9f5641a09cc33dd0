// Package codec converts application payloads to and from the string form
// carried in the message field of relay publish and push requests.
//
// Without key material a payload is its JSON serialization in lower-case
// hex, which anybody can read back. With key material the JSON is sealed with
// XChaCha20-Poly1305 under a key derived from the shared key, and the wire
// form is the hex of version || nonce || ciphertext.
//
// The mode is chosen only by the presence of material. Decode never guesses:
// a payload sealed on one side and read in plain mode on the other, or read
// with a different key, fails with a DecodeError.
package codec

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/DeBrosOfficial/relayer/pkg/errors"
)

const (
	// envelopeVersion prefixes every sealed payload.
	envelopeVersion byte = 0x01

	keyInfo = "relayer payload key v1"
)

// Material is optional symmetric key material for one encode or decode call.
type Material struct {
	SharedKey []byte
}

// Encode serializes payload to JSON and returns its wire string. A nil
// material selects plain mode.
func Encode(payload interface{}, material *Material) (string, error) {
	plain, err := json.Marshal(payload)
	if err != nil {
		return "", errors.NewValidationError("payload", "payload is not serializable", nil).WithCause(err)
	}
	if material == nil {
		return hex.EncodeToString(plain), nil
	}

	aead, err := newAEAD(material)
	if err != nil {
		return "", err
	}
	header := 1 + aead.NonceSize()
	out := make([]byte, header, header+len(plain)+aead.Overhead())
	out[0] = envelopeVersion
	if _, err := io.ReadFull(rand.Reader, out[1:header]); err != nil {
		return "", errors.NewInternalError("generate nonce", err)
	}
	out = aead.Seal(out, out[1:header], plain, out[:1])
	return hex.EncodeToString(out), nil
}

// Decode is the inverse of Encode. The returned message is well-formed JSON.
func Decode(wire string, material *Material) (json.RawMessage, error) {
	raw, err := hex.DecodeString(wire)
	if err != nil {
		return nil, errors.NewDecodeError("invalid hex", err)
	}

	plain := raw
	if material != nil {
		aead, err := newAEAD(material)
		if err != nil {
			return nil, errors.NewDecodeError("invalid key material", err)
		}
		if len(raw) < 1+aead.NonceSize()+aead.Overhead() {
			return nil, errors.NewDecodeError("sealed payload too short", nil)
		}
		if raw[0] != envelopeVersion {
			return nil, errors.NewDecodeError("unknown envelope version", nil)
		}
		nonce := raw[1 : 1+aead.NonceSize()]
		plain, err = aead.Open(nil, nonce, raw[1+aead.NonceSize():], raw[:1])
		if err != nil {
			return nil, errors.NewDecodeError("open sealed payload", err)
		}
	}

	if !json.Valid(plain) {
		return nil, errors.NewDecodeError("payload is not valid JSON", nil)
	}
	return json.RawMessage(plain), nil
}

// DecodeInto decodes wire and unmarshals the payload into v.
func DecodeInto(wire string, material *Material, v interface{}) error {
	msg, err := Decode(wire, material)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(msg, v); err != nil {
		return errors.NewDecodeError("unmarshal payload", err)
	}
	return nil
}

// newAEAD derives the payload key from the shared key with HKDF-SHA256.
func newAEAD(material *Material) (cipher.AEAD, error) {
	if len(material.SharedKey) == 0 {
		return nil, errors.NewValidationError("shared_key", "shared key is empty", nil)
	}
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, material.SharedKey, nil, []byte(keyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, errors.NewInternalError("derive payload key", err)
	}
	return chacha20poly1305.NewX(key)
}
