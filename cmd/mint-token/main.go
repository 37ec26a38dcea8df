package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/feedworks/stockpipe/internal/webhook"
)

// Mints a webhook bearer token from the configured signing key, for
// exercising receiving consumers by hand.
func main() {
	var (
		subject = flag.String("sub", "dev-sender", "subject (sub), normally the sender id")
		issuer  = flag.String("iss", "stockpipe", "issuer (iss)")
		envKey  = flag.String("env", "WEBHOOK_SIGNING_KEY_PEM", "env var containing RSA private key PEM")
	)
	flag.Parse()

	raw := strings.TrimSpace(os.Getenv(*envKey))
	if raw == "" {
		fmt.Fprintf(os.Stderr, "%s is not set\n", *envKey)
		os.Exit(1)
	}

	signer, err := webhook.NewTokenSigner(raw, *issuer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load signing key failed: %v\n", err)
		os.Exit(1)
	}

	token, err := signer.Mint(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
