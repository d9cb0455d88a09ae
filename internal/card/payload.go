package card

type payload struct {
	Form         form         `json:"form"`
	Style        style        `json:"style"`
	SwitchConfig switchConfig `json:"switchConfig"`
	Temp         string       `json:"temp"`
	ImgScale     int          `json:"imgScale"`
	Language     string       `json:"language"`
}

type form struct {
	Icon         string `json:"icon"`
	Date         string `json:"date"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Author       string `json:"author"`
	TextCount    string `json:"textCount"`
	QRCodeTitle  string `json:"qrCodeTitle"`
	QRCodeText   string `json:"qrCodeText"`
	Pagination   string `json:"pagination"`
	QRCode       string `json:"qrCode"`
	TextCountNum int    `json:"textCountNum"`
}

type style struct {
	Align           string      `json:"align"`
	BackgroundName  string      `json:"backgroundName"`
	BackShadow      string      `json:"backShadow"`
	Font            string      `json:"font"`
	Width           int         `json:"width"`
	Ratio           string      `json:"ratio"`
	Height          int         `json:"height"`
	FontScale       float64     `json:"fontScale"`
	Padding         string      `json:"padding"`
	BorderRadius    string      `json:"borderRadius"`
	BackgroundAngle string      `json:"backgroundAngle"`
	LineHeights     dateContent `json:"lineHeights"`
	LetterSpacings  dateContent `json:"letterSpacings"`
}

type dateContent struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

type switchConfig struct {
	ShowIcon      bool `json:"showIcon"`
	ShowDate      bool `json:"showDate"`
	ShowTitle     bool `json:"showTitle"`
	ShowContent   bool `json:"showContent"`
	ShowAuthor    bool `json:"showAuthor"`
	ShowTextCount bool `json:"showTextCount"`
	ShowQRCode    bool `json:"showQRCode"`
	ShowPageNum   bool `json:"showPageNum"`
	ShowWatermark bool `json:"showWatermark"`
	ShowTGradual  bool `json:"showTGradual"`
}
