package db

import (
	"strings"
	"testing"
)

func TestLatinLow(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"love", "love"},
		{"LOVE", "love"},
		{"Beyoncé", "beyonce"},
		{"Motörhead", "motorhead"},
		{"Ærøskøbing", "aeroskobing"},
		{"Straße", "strasse"},
		{"Łódź", "lodz"},
		{"ﬁre", "fire"},
		{"ℌ", "h"},
		{"𝐀BBA", "abba"},
		{"ÆON", "aeon"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := LatinLow(tt.in); got != tt.want {
				t.Errorf("LatinLow(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLatinLow_IdempotentAndLower(t *testing.T) {
	inputs := []string{
		"ℌello", "ℍ", "𝐀", "𝔄𝔅ℭ", "ＦＵＬＬ", "Ǆ", "İstanbul", "ẞ", "Ω", "K", "Beyoncé", "ÆØ",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := LatinLow(in)
			if twice := LatinLow(once); twice != once {
				t.Errorf("LatinLow(LatinLow(%q)) = %q, want %q", in, twice, once)
			}
			if lower := strings.ToLower(once); lower != once {
				t.Errorf("LatinLow(%q) = %q, not lowercase", in, once)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := EscapeLike(tt.in, LikeEscapeChar); got != tt.want {
			t.Errorf("EscapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoteString(t *testing.T) {
	if got := QuoteString("it's"); got != "'it''s'" {
		t.Errorf("QuoteString = %s, want 'it''s'", got)
	}
}

func TestLikeMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		value   string
		want    bool
	}{
		{"substring", "%love%", "Lovely Day", true},
		{"no match", "%love%", "Hate", false},
		{"exact", "love", "LOVE", true},
		{"exact longer", "love", "lovely", false},
		{"one", "lov_", "love", true},
		{"one needs a rune", "love_", "love", false},
		{"diacritics", "%beyonce%", "Beyoncé", true},
		{"pattern diacritics", "%é%", "cafe", true},
		{"escaped percent", `100\%`, "100%", true},
		{"escaped percent literal", `100\%`, "1000", false},
		{"escaped underscore", `a\_b`, "axb", false},
		{"escaped escape", `a\\b`, `a\b`, true},
		{"backtracking", "%ab%ab", "xabyabzab", true},
		{"empty pattern", "", "", true},
		{"only percent", "%", "", true},
		{"trailing space", "love_", "love ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LikeMatch(tt.pattern, tt.value, LikeEscapeChar); got != tt.want {
				t.Errorf("LikeMatch(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.want)
			}
		})
	}
}

func TestLikeOperator_UsesLatinLow(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	tests := []struct {
		query string
		want  bool
	}{
		{`SELECT 'Beyoncé' LIKE '%beyonce%'`, true},
		{`SELECT 'MOTÖRHEAD' LIKE 'motorhead'`, true},
		{`SELECT '100%' LIKE '100\%'`, true},
		{`SELECT '1000' LIKE '100\%'`, false},
		{`SELECT 'a|b' LIKE 'a||b' ESCAPE '|'`, true},
		{`SELECT 'a|c' LIKE 'a||b' ESCAPE '|'`, false},
		{`SELECT 'a|b' LIKE 'a||%' ESCAPE '|'`, true},
		{`SELECT 128 LIKE '12%'`, true},
	}
	for _, tt := range tests {
		var got bool
		if err := db.QueryRow(tt.query).Scan(&got); err != nil {
			t.Fatalf("%s: %v", tt.query, err)
		}
		if got != tt.want {
			t.Errorf("%s = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestCollateLatinLow(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	for i, name := range []string{"zeta", "Émile", "alpha", "Eve"} {
		if _, err := db.Exec(`INSERT INTO crates (id, name) VALUES (?, ?)`, i+1, name); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	rows, err := db.Query(`SELECT name FROM crates ORDER BY name COLLATE latin_low`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, name)
	}
	want := []string{"alpha", "Émile", "Eve", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}
