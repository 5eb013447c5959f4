package render

type Renderer interface {
	Init() error
	Deinit() error
	AddDecoration(col, row uint16, content string, frames int)
	Fill(row, column uint16, message string)
	// Frame ages decorations and writes everything filled since the last frame
	Frame() error
}
