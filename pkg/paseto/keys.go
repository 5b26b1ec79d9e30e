package pasetotoken

import (
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local, symmetric encryption
	ModePublic Mode = "public" // v4.public, asymmetric signatures
)

// Keys holds whichever key material the configured mode needs. In
// public mode a verify-only service may carry just the public key.
type Keys struct {
	Mode Mode

	Symmetric *paseto.V4SymmetricKey

	Secret *paseto.V4AsymmetricSecretKey
	Public *paseto.V4AsymmetricPublicKey
}

type KeyStrings struct {
	Mode Mode

	SymmetricHex string

	SecretHex string
	PublicHex string
}

func LoadKeys(in KeyStrings) (Keys, error) {
	switch in.Mode {
	case ModeLocal:
		return loadLocal(strings.TrimSpace(in.SymmetricHex))
	case ModePublic:
		return loadPublic(strings.TrimSpace(in.SecretHex), strings.TrimSpace(in.PublicHex))
	default:
		return Keys{}, ErrConfig{Msg: "unknown mode (use local|public)"}
	}
}

func loadLocal(symHex string) (Keys, error) {
	if symHex == "" {
		return Keys{}, ErrConfig{Msg: "local mode requires a symmetric key"}
	}
	k, err := paseto.V4SymmetricKeyFromHex(symHex)
	if err != nil {
		return Keys{}, ErrConfig{Msg: "invalid symmetric key hex: " + err.Error()}
	}
	return Keys{Mode: ModeLocal, Symmetric: &k}, nil
}

func loadPublic(secHex, pubHex string) (Keys, error) {
	out := Keys{Mode: ModePublic}

	if secHex != "" {
		sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(secHex)
		if err != nil {
			return Keys{}, ErrConfig{Msg: "invalid secret key hex: " + err.Error()}
		}
		out.Secret = &sk
		pk := sk.Public()
		out.Public = &pk
	}
	// An explicit public key wins over one derived from the secret.
	if pubHex != "" {
		pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(pubHex)
		if err != nil {
			return Keys{}, ErrConfig{Msg: "invalid public key hex: " + err.Error()}
		}
		out.Public = &pk
	}

	if out.Secret == nil && out.Public == nil {
		return Keys{}, ErrConfig{Msg: "public mode requires a secret and/or public key"}
	}
	return out, nil
}
