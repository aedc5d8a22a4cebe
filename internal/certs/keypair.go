package certs

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
)

// KeyBits は CA・リーフ共通の鍵長（設定不可）
const KeyBits = 2048

// 鍵生成に使う乱数源。テストで差し替える
var randReader io.Reader = rand.Reader

// KeyPair は署名用の非対称鍵ペア
type KeyPair struct {
	private *rsa.PrivateKey
}

// GenerateKeyPair は新しい RSA 鍵ペアを生成する
func GenerateKeyPair() (*KeyPair, error) {
	key, err := rsa.GenerateKey(randReader, KeyBits)
	if err != nil {
		return nil, fmt.Errorf("%w: generate rsa-%d key: %w", ErrKeyGeneration, KeyBits, err)
	}
	return &KeyPair{private: key}, nil
}

// Signer は x509.CreateCertificate に渡す秘密鍵を返す
func (k *KeyPair) Signer() crypto.Signer {
	if k == nil || k.private == nil {
		return nil
	}
	return k.private
}

// Public は公開鍵を返す
func (k *KeyPair) Public() crypto.PublicKey {
	if k == nil || k.private == nil {
		return nil
	}
	return &k.private.PublicKey
}

// PrivateKeyPEM は PKCS#1 形式の PEM を返す
func (k *KeyPair) PrivateKeyPEM() ([]byte, error) {
	if k == nil || k.private == nil {
		return nil, fmt.Errorf("%w: private key is not available", ErrSigning)
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  pemTypeRSAPrivateKey,
		Bytes: x509.MarshalPKCS1PrivateKey(k.private),
	}), nil
}

// Destroy は秘密鍵の値をゼロ埋めする（ベストエフォート）
func (k *KeyPair) Destroy() {
	if k == nil || k.private == nil {
		return
	}
	zeroInt(k.private.D)
	for _, p := range k.private.Primes {
		zeroInt(p)
	}
	k.private.Precomputed = rsa.PrecomputedValues{}
	k.private = nil
}

func zeroInt(n *big.Int) {
	if n == nil {
		return
	}
	words := n.Bits()
	for i := range words {
		words[i] = 0
	}
	n.SetInt64(0)
}

// matches は証明書の公開鍵と一致するか確認する
func (k *KeyPair) matches(pub crypto.PublicKey) bool {
	if k == nil || k.private == nil {
		return false
	}
	other, ok := pub.(*rsa.PublicKey)
	if !ok {
		return false
	}
	return k.private.PublicKey.Equal(other)
}
