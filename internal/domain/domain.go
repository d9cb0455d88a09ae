package domain

type MessageKind int

const (
	MessageText MessageKind = iota
	MessageShare
)

// Message is an incoming chat message as seen by the brief core.
type Message struct {
	Kind    MessageKind
	Content string
	UserID  string
	IsGroup bool
}

type ReplyKind int

const (
	ReplyText ReplyKind = iota
	ReplyError
	ReplyImage
)

type Reply struct {
	Kind  ReplyKind
	Text  string
	Image []byte
}

func TextReply(text string) Reply {
	return Reply{Kind: ReplyText, Text: text}
}

func ErrorReply(text string) Reply {
	return Reply{Kind: ReplyError, Text: text}
}

func ImageReply(image []byte) Reply {
	return Reply{Kind: ReplyImage, Image: image}
}

// Page is the extracted content of a shared URL.
type Page struct {
	URL     string
	Content string
	Title   string
	Source  string
}

// Summary is the structured summary returned by the model. Every field is
// optional.
type Summary struct {
	Title     string
	Summary   string
	KeyPoints []string
	Comment   string
	Tags      string
	ReadTime  string
	Source    string
}

// Session is the short-lived follow-up context of one user.
type Session struct {
	UserID  string `json:"userId"`
	LastURL string `json:"lastUrl"`
	Prompt  string `json:"prompt"`
	Content string `json:"content,omitempty"`
	Title   string `json:"title,omitempty"`
	Source  string `json:"source,omitempty"`
}
