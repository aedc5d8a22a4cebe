package certs

import "errors"

// エラー種別。呼び出し側は errors.Is で判定する
var (
	// ErrKeyGeneration は乱数源や暗号プロバイダの失敗。リトライしない
	ErrKeyGeneration = errors.New("key generation failed")
	// ErrIdentityValidation は入力値（国コード・ドメイン・有効日数）の不正
	ErrIdentityValidation = errors.New("identity validation failed")
	// ErrSigning は署名鍵の欠落など内部不変条件の違反
	ErrSigning = errors.New("signing failed")
	// ErrPersistence はファイル書き込み・権限エラー
	ErrPersistence = errors.New("persistence failed")
)
