package cleaner

import (
	"strings"
	"testing"
)

func TestCleanDropsPreambleAndClosing(t *testing.T) {
	input := `HOMILÍA DEL SANTO PADRE
Basílica de San Pedro
Domingo, 18 de mayo de 2025

Queridos hermanos y hermanas:
La paz esté con todos ustedes. (Aplausos)
El Señor nos llama a servir.

Saludos a los peregrinos de lengua española presentes hoy.
Y también a los grupos de Italia.`

	got := Clean(input)
	if strings.Contains(got, "Basílica") {
		t.Errorf("preamble survived: %q", got)
	}
	if !strings.HasPrefix(got, "Queridos hermanos") {
		t.Errorf("output does not start at greeting: %q", got)
	}
	if strings.Contains(got, "Saludos") || strings.Contains(got, "Italia") {
		t.Errorf("closing greetings survived: %q", got)
	}
	if strings.Contains(got, "Aplausos") || strings.Contains(got, "(") {
		t.Errorf("parenthesised span survived: %q", got)
	}
	if !strings.Contains(got, "El Señor nos llama a servir.") {
		t.Errorf("body text lost: %q", got)
	}
}

func TestCleanCaseInsensitiveMarkers(t *testing.T) {
	got := Clean("Intro. QUERIDOS fieles, un mensaje. DESPUÉS DEL ÁNGELUS saludó.")
	if got != "QUERIDOS fieles, un mensaje." {
		t.Errorf("got %q", got)
	}
}

func TestCleanNoGreetingKeepsText(t *testing.T) {
	got := Clean("Un texto sin saludo inicial reconocible.")
	if got != "Un texto sin saludo inicial reconocible." {
		t.Errorf("got %q", got)
	}
}

func TestCleanCollapsesWhitespaceAndUnderscores(t *testing.T) {
	got := Clean("Queridos  amigos,\n\n_un_ mensaje\tbreve.")
	if got != "Queridos amigos, un mensaje breve." {
		t.Errorf("got %q", got)
	}
}
