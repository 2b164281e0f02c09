package security

import "testing"

func TestFingerprinter_Deterministic(t *testing.T) {
	fp := NewFingerprinter()

	first := fp.Encode("Mozilla/5.0")
	second := fp.Encode("Mozilla/5.0")
	if first != second {
		t.Fatalf("одинаковый вход должен давать одинаковый дайджест")
	}

	if fp.Encode("curl/8.0") == first {
		t.Fatalf("разный вход должен давать разный дайджест")
	}

	if len(first) != 64 {
		t.Fatalf("ожидался hex SHA-256 длиной 64, получили %d", len(first))
	}
}

func TestTokenDigest_KeyedBySecret(t *testing.T) {
	first := NewTokenDigest("secret-one").Encode("token")
	second := NewTokenDigest("secret-two").Encode("token")

	if first == second {
		t.Fatalf("разные секреты должны давать разные дайджесты")
	}

	if NewTokenDigest("secret-one").Encode("token") != first {
		t.Fatalf("дайджест должен быть детерминированным при одном секрете")
	}
}

func TestTokenDigest_IndependentFromFingerprinter(t *testing.T) {
	// Одна и та же строка через две трансформации не должна давать
	// одинаковый результат: у каждой свой ключ.
	raw := "shared-input"
	if NewFingerprinter().Encode(raw) == NewTokenDigest("secret").Encode(raw) {
		t.Fatalf("трансформации обязаны быть независимыми")
	}
}
