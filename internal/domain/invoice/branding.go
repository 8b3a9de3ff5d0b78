package invoice

// BankDetails impresos en el recuadro del banco.
type BankDetails struct {
	AccountName   string
	AccountNumber string
	BankBranch    string
	IFSC          string
}

// Fallbacks completa los metadatos que la fila de cabecera deja vacíos.
type Fallbacks struct {
	CustomerName  string
	Location      string
	CustomerGSTIN string
	BillNumber    string
	Date          string
	Time          string
	VehicleNo     string
	ItemName      string
	HSN           string
}

// Branding es el membrete estático de la empresa emisora.
type Branding struct {
	CompanyName   string
	DisplayName   string // usado en mensajes y metadatos del documento
	Address       string
	GSTIN         string
	Website       string
	BillLabel     string
	Bank          BankDetails
	Terms         []string
	ContactLines  []string
	Fallbacks     Fallbacks
	OverflowWords string // se imprime en lugar de las letras cuando el total es demasiado grande
}

// DefaultBranding es el membrete de Asha Fan Industries.
func DefaultBranding() Branding {
	return Branding{
		CompanyName: "ASHA FAN INDUSTRIES",
		DisplayName: "Asha Fan Industries",
		Address:     "300/3 Sita Nagar, Gharaunda (Karnal), HR | 132114",
		GSTIN:       "06ABJPT7774Q1ZH",
		Website:     "www.theashaindustries.com",
		BillLabel:   "Bill-Cash",
		Bank: BankDetails{
			AccountName:   "ASHA FAN INDUSTRIES",
			AccountNumber: "1716008700007614",
			BankBranch:    "Punjab National Bank, Gharaunda (Karnal)",
			IFSC:          "PUNB0171600",
		},
		Terms: []string{
			"1. Goods once sold will not be taken back.",
			"2. Subject to Karnal Jurisdiction.",
		},
		ContactLines: []string{
			"For any further inquiries please reach out to",
			"us at support@theashaindustries.com",
		},
		Fallbacks: Fallbacks{
			CustomerName:  "N/A",
			Location:      "N/A",
			CustomerGSTIN: "06ANJPM8264E1ZT",
			BillNumber:    "AFI-0377",
			Date:          "N/A",
			Time:          "N/A",
			VehicleNo:     "HR67D0177",
			ItemName:      "N/A",
			HSN:           "8414",
		},
		OverflowWords: "Amount exceeds supported range",
	}
}

// Logo es el resultado de cargar la imagen del membrete. Un logo ausente es un
// resultado normal: la cabecera se dibuja sin él.
type Logo struct {
	Present bool
	Data    []byte
	Format  string
}

// NoLogo es el resultado ausente.
func NoLogo() Logo { return Logo{} }

// LogoFromBytes envuelve los datos de imagen cargados.
func LogoFromBytes(data []byte, format string) Logo {
	if len(data) == 0 {
		return NoLogo()
	}
	return Logo{Present: true, Data: data, Format: format}
}
