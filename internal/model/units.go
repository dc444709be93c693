package model

// UnitFilter is the set of budget-management unit (UG) codes a caller is
// interested in. Only grand-total rows for these units produce line items.
type UnitFilter map[string]bool

// NewUnitFilter builds a filter from explicit unit codes.
func NewUnitFilter(codes ...string) UnitFilter {
	filter := make(UnitFilter, len(codes))
	for _, code := range codes {
		filter[code] = true
	}
	return filter
}

// Contains reports whether the filter includes the given unit code.
func (f UnitFilter) Contains(code string) bool {
	return f[code]
}

// Codes returns the filter's unit codes, unordered.
func (f UnitFilter) Codes() []string {
	codes := make([]string, 0, len(f))
	for code := range f {
		codes = append(codes, code)
	}
	return codes
}

// DefaultUnits returns the built-in filter covering the Navy's budget
// units. A fresh value is returned on every call so callers can mutate
// their copy without affecting anyone else.
func DefaultUnits() UnitFilter {
	return NewUnitFilter(
		"52131", // Comando da Marinha
		"52133", // Secretaria da CIRM
		"52232", // CCCPM
		"52233", // AMAZUL
		"52931", // Fundo Naval
		"52932", // Fundo do Ensino Profissional Marítimo
	)
}

var unitNames = map[string]string{
	"52131": "Comando da Marinha",
	"52133": "Secretaria da Comissão Interministerial para os Recursos do Mar",
	"52232": "Caixa de Construções de Casas para o Pessoal da Marinha - CCCPM",
	"52233": "Amazônia Azul Tecnologias de Defesa S.A. - AMAZUL",
	"52931": "Fundo Naval",
	"52932": "Fundo de Desenvolvimento do Ensino Profissional Marítimo",
	"52000": "Ministério da Defesa",
}

// UnitName returns the human-readable name for a known unit code, or an
// empty string when the code is not in the built-in table.
func UnitName(code string) string {
	return unitNames[code]
}
