package cipher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, id := range Supported() {
		id := id
		t.Run(string(id), func(t *testing.T) {
			plaintext := []byte("hello world, this is a steganographic payload")
			env, key, err := Encrypt(plaintext, "correct horse battery staple", id)
			require.NoError(t, err)
			require.NotEmpty(t, key)
			require.Equal(t, id, env.CipherID)

			got, key2, err := Decrypt(env, "correct horse battery staple")
			require.NoError(t, err)
			require.Equal(t, plaintext, got)
			require.Equal(t, key, key2)
		})
	}
}

func TestDecryptWrongPassphraseFails(t *testing.T) {
	for _, id := range Supported() {
		env, _, err := Encrypt([]byte("secret"), "correct horse battery staple", id)
		require.NoError(t, err)

		_, _, err = Decrypt(env, "wrong passphrase")
		require.Error(t, err)
	}
}

func TestDecryptTamperedCiphertextFails(t *testing.T) {
	for _, id := range Supported() {
		env, _, err := Encrypt([]byte("secret payload"), "passphrase", id)
		require.NoError(t, err)

		env.Ciphertext[0] ^= 0x01
		_, _, err = Decrypt(env, "passphrase")
		require.Error(t, err)
	}
}

func TestEncryptEmptyPassphraseRejected(t *testing.T) {
	_, _, err := Encrypt([]byte("x"), "", Ascon128)
	require.Error(t, err)
}

func TestAsconRoundTripEmptyPlaintext(t *testing.T) {
	key := make([]byte, asconKeyLen)
	nonce := make([]byte, asconNonceLen)
	sealed, err := asconEncrypt(key, nonce, nil)
	require.NoError(t, err)
	require.Len(t, sealed, asconTagLen)

	pt, err := asconDecrypt(key, nonce, sealed)
	require.NoError(t, err)
	require.Empty(t, pt)
}

func TestAsconRoundTripVariousLengths(t *testing.T) {
	key := []byte("0123456789abcdef")
	nonce := []byte("fedcba9876543210")
	for _, n := range []int{0, 1, 7, 8, 9, 15, 16, 17, 100, 1024} {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i)
		}
		sealed, err := asconEncrypt(key, nonce, data)
		require.NoError(t, err)

		pt, err := asconDecrypt(key, nonce, sealed)
		require.NoError(t, err)
		require.Equal(t, data, pt)
	}
}

func TestAsconTamperFails(t *testing.T) {
	key := []byte("0123456789abcdef")
	nonce := []byte("fedcba9876543210")
	sealed, err := asconEncrypt(key, nonce, []byte("payload"))
	require.NoError(t, err)

	sealed[0] ^= 0xFF
	_, err = asconDecrypt(key, nonce, sealed)
	require.Error(t, err)
}
