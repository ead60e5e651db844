package shell

type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalMessage
	ModalSaveContent
	ModalLocate
)

// ModalContent is what the modal slot shows. Kind selects the form the TUI
// draws and routes keys to.
type ModalContent struct {
	Kind  ModalKind
	Title string
	Body  string
	// Value prefills the form input.
	Value string
}

// Modal is a single overlay slot. At most one content is shown at a time.
type Modal struct {
	open    bool
	content ModalContent
}

// Open shows c. It refuses when the modal is already open and keeps the
// current content.
func (m *Modal) Open(c ModalContent) bool {
	if m.open {
		return false
	}
	m.content = c
	m.open = true
	return true
}

// Close hides the modal. The content stays until the next Open.
func (m *Modal) Close() bool {
	if !m.open {
		return false
	}
	m.open = false
	return true
}

func (m *Modal) IsOpen() bool { return m.open }

func (m *Modal) Content() ModalContent { return m.content }
