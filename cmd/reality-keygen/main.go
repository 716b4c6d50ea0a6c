// reality-keygen: generate the credential set for a sing-box Reality
// inbound (X25519 keypair, short id, user UUID) without running a probe
// pass. Useful when rotating credentials for an already-selected domain.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/curve25519"
)

func main() {
	count := flag.Int("n", 1, "Number of credential sets to generate")
	flag.Parse()

	if *count <= 0 {
		fmt.Fprintln(os.Stderr, "ERROR: -n must be > 0")
		os.Exit(2)
	}

	for i := 0; i < *count; i++ {
		privateKey, publicKey, err := generateKeyPair()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		shortID, err := generateShortID()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}

		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("uuid:        %s\n", uuid.NewString())
		fmt.Printf("private_key: %s\n", privateKey)
		fmt.Printf("public_key:  %s\n", publicKey)
		fmt.Printf("short_id:    %s\n", shortID)
	}
}

func generateKeyPair() (string, string, error) {
	var priv [32]byte
	if _, err := rand.Read(priv[:]); err != nil {
		return "", "", fmt.Errorf("generate private key: %w", err)
	}
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64

	pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return "", "", fmt.Errorf("derive public key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(priv[:]),
		base64.RawURLEncoding.EncodeToString(pub), nil
}

func generateShortID() (string, error) {
	var raw [8]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate short id: %w", err)
	}
	return hex.EncodeToString(raw[:]), nil
}
