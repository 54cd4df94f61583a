package listing

// Gallery is the state machine behind the image carousel and its full-screen
// modal. All transitions are plain methods so the same semantics drive the
// desktop and mobile presentations.
type Gallery struct {
	length       int
	activeIndex  int
	modalOpen    bool
	scrollLocked bool
}

func NewGallery(length int) *Gallery {
	if length < 0 {
		length = 0
	}
	return &Gallery{length: length}
}

func (g *Gallery) Len() int         { return g.length }
func (g *Gallery) ActiveIndex() int { return g.activeIndex }

// HasNavigation reports whether prev/next controls and the pagination
// indicator should render: only with two or more images.
func (g *Gallery) HasNavigation() bool { return g.length > 1 }

// Next advances the active image, wrapping from the last back to the first.
func (g *Gallery) Next() {
	if g.length < 2 {
		return
	}
	g.activeIndex = (g.activeIndex + 1) % g.length
}

// Previous steps back, wrapping from the first image to the last.
func (g *Gallery) Previous() {
	if g.length < 2 {
		return
	}
	g.activeIndex = (g.activeIndex - 1 + g.length) % g.length
}

// Select jumps to an index; out-of-range values are ignored.
func (g *Gallery) Select(index int) {
	if index < 0 || index >= g.length {
		return
	}
	g.activeIndex = index
}

// Resize adjusts the gallery when the image list changes, clamping the active
// index back into range.
func (g *Gallery) Resize(length int) {
	if length < 0 {
		length = 0
	}
	g.length = length
	if g.length == 0 {
		g.activeIndex = 0
		return
	}
	if g.activeIndex > g.length-1 {
		g.activeIndex = g.length - 1
	}
}

// OpenModal opens the full-screen view and suspends page scroll. Galleries
// without images have nothing to show and stay closed.
func (g *Gallery) OpenModal() {
	if g.length == 0 {
		return
	}
	g.modalOpen = true
	g.scrollLocked = true
}

// CloseModal closes the full-screen view. Scroll is always restored, whatever
// path closed the modal.
func (g *Gallery) CloseModal() {
	g.modalOpen = false
	g.scrollLocked = false
}

func (g *Gallery) ModalOpen() bool    { return g.modalOpen }
func (g *Gallery) ScrollLocked() bool { return g.scrollLocked }

// HandleKey applies the modal keyboard bindings: Escape closes, the arrow
// keys navigate. Unknown keys are ignored.
func (g *Gallery) HandleKey(key string) {
	if !g.modalOpen {
		return
	}
	switch key {
	case "Escape":
		g.CloseModal()
	case "ArrowLeft":
		g.Previous()
	case "ArrowRight":
		g.Next()
	}
}
