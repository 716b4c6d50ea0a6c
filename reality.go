package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/curve25519"
)

// RealityKeyPair holds an X25519 keypair in the unpadded URL-safe base64
// encoding that `sing-box generate reality-keypair` emits.
type RealityKeyPair struct {
	PrivateKey string
	PublicKey  string
}

// GenerateRealityKeyPair produces a fresh X25519 keypair for a Reality
// inbound, clamped per RFC 7748.
func GenerateRealityKeyPair() (RealityKeyPair, error) {
	var priv [32]byte
	if _, err := rand.Read(priv[:]); err != nil {
		return RealityKeyPair{}, fmt.Errorf("generate private key: %w", err)
	}
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64

	pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return RealityKeyPair{}, fmt.Errorf("derive public key: %w", err)
	}

	return RealityKeyPair{
		PrivateKey: base64.RawURLEncoding.EncodeToString(priv[:]),
		PublicKey:  base64.RawURLEncoding.EncodeToString(pub),
	}, nil
}

// GenerateShortID returns a random 8-byte hex short id.
func GenerateShortID() (string, error) {
	var raw [8]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate short id: %w", err)
	}
	return hex.EncodeToString(raw[:]), nil
}

// sing-box Reality inbound config structs.

type RealityHandshake struct {
	Server     string `json:"server"`
	ServerPort uint16 `json:"server_port"`
}

type RealityConfig struct {
	Enabled    bool             `json:"enabled"`
	Handshake  RealityHandshake `json:"handshake"`
	PrivateKey string           `json:"private_key"`
	ShortID    []string         `json:"short_id"`
}

type InboundTLS struct {
	Enabled    bool           `json:"enabled"`
	ServerName string         `json:"server_name"`
	Reality    *RealityConfig `json:"reality,omitempty"`
}

type InboundUser struct {
	UUID string `json:"uuid"`
	Flow string `json:"flow"`
}

type RealityInbound struct {
	Type       string        `json:"type"`
	Tag        string        `json:"tag"`
	Listen     string        `json:"listen"`
	ListenPort uint16        `json:"listen_port"`
	Users      []InboundUser `json:"users"`
	TLS        *InboundTLS   `json:"tls"`
}

// BuildRealityInbound assembles a VLESS Reality inbound that camouflages as
// the selected domain. The keypair is returned alongside because the client
// side needs the public key and it is not part of the server inbound.
func BuildRealityInbound(selection Selection, listenPort, handshakePort uint16) (RealityInbound, RealityKeyPair, error) {
	keyPair, err := GenerateRealityKeyPair()
	if err != nil {
		return RealityInbound{}, RealityKeyPair{}, err
	}
	shortID, err := GenerateShortID()
	if err != nil {
		return RealityInbound{}, RealityKeyPair{}, err
	}

	inbound := RealityInbound{
		Type:       "vless",
		Tag:        "vless-reality",
		Listen:     "::",
		ListenPort: listenPort,
		Users: []InboundUser{{
			UUID: uuid.NewString(),
			Flow: "xtls-rprx-vision",
		}},
		TLS: &InboundTLS{
			Enabled:    true,
			ServerName: selection.Domain,
			Reality: &RealityConfig{
				Enabled: true,
				Handshake: RealityHandshake{
					Server:     selection.Domain,
					ServerPort: handshakePort,
				},
				PrivateKey: keyPair.PrivateKey,
				ShortID:    []string{shortID},
			},
		},
	}
	return inbound, keyPair, nil
}

// WriteRealityConfig writes the inbound snippet for the selected domain and
// reports the client-side credentials on stderr.
func WriteRealityConfig(path string, selection Selection, listenPort, handshakePort uint16) error {
	inbound, keyPair, err := BuildRealityInbound(selection, listenPort, handshakePort)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(inbound, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Reality inbound written to %s\n", path)
	fmt.Fprintf(os.Stderr, "  uuid:       %s\n", inbound.Users[0].UUID)
	fmt.Fprintf(os.Stderr, "  public_key: %s\n", keyPair.PublicKey)
	fmt.Fprintf(os.Stderr, "  short_id:   %s\n", inbound.TLS.Reality.ShortID[0])
	if !selection.Verified {
		fmt.Fprintf(os.Stderr, "WARN: server_name %s is unverified\n", selection.Domain)
	}
	return nil
}
