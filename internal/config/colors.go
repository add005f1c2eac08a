package config

import (
	"fmt"

	"github.com/derailed/tcell/v2"
)

// Color represents a color in the application
type Color string

const (
	// DefaultColor represents a default color
	DefaultColor Color = "default"

	// TransparentColor represents the terminal bg color
	TransparentColor Color = "-"
)

// NewColor returns a new color
func NewColor(c string) Color {
	return Color(c)
}

// String returns color as a tview color tag value
func (c Color) String() string {
	if c.isHex() {
		return string(c)
	}
	if c == DefaultColor || c == TransparentColor || c == "" {
		return "-"
	}
	col := c.Color().TrueColor().Hex()
	if col < 0 {
		return "-"
	}
	return fmt.Sprintf("#%06x", col)
}

func (c Color) isHex() bool {
	return len(c) == 7 && c[0] == '#'
}

// Color returns a view color
func (c Color) Color() tcell.Color {
	if c == DefaultColor || c == TransparentColor || c == "" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(string(c)).TrueColor()
}

// BodyColors defines colors for body elements
type BodyColors struct {
	FgColor   Color `yaml:"fgColor"`
	BgColor   Color `yaml:"bgColor"`
	LogoColor Color `yaml:"logoColor"`
}

// BorderColors defines frame border colors
type BorderColors struct {
	FgColor    Color `yaml:"fgColor"`
	FocusColor Color `yaml:"focusColor"`
}

// TitleColors defines frame title colors
type TitleColors struct {
	FgColor        Color `yaml:"fgColor"`
	HighlightColor Color `yaml:"highlightColor"`
}

// FrameColors defines colors for UI frame elements
type FrameColors struct {
	Border BorderColors `yaml:"border"`
	Title  TitleColors  `yaml:"title"`
}

// ListColors defines colors for the email list rows
type ListColors struct {
	SenderColor   Color `yaml:"senderColor"`
	SubjectColor  Color `yaml:"subjectColor"`
	DateColor     Color `yaml:"dateColor"`
	SnippetColor  Color `yaml:"snippetColor"`
	SelectedColor Color `yaml:"selectedColor"`
}

// ToastColors defines colors per notification severity
type ToastColors struct {
	SuccessColor Color `yaml:"successColor"`
	ErrorColor   Color `yaml:"errorColor"`
	InfoColor    Color `yaml:"infoColor"`
}

// ReplyColors defines colors for the draft editor
type ReplyColors struct {
	LockedColor   Color `yaml:"lockedColor"`
	EditableColor Color `yaml:"editableColor"`
	SendingColor  Color `yaml:"sendingColor"`
}

// ColorsConfig defines the complete color configuration
type ColorsConfig struct {
	Body  BodyColors  `yaml:"body"`
	Frame FrameColors `yaml:"frame"`
	List  ListColors  `yaml:"list"`
	Toast ToastColors `yaml:"toast"`
	Reply ReplyColors `yaml:"reply"`
}

// DefaultColors returns the default color configuration
func DefaultColors() *ColorsConfig {
	return &ColorsConfig{
		Body: BodyColors{
			FgColor:   NewColor("#f8f8f2"),
			BgColor:   NewColor("#282a36"),
			LogoColor: NewColor("#bd93f9"),
		},
		Frame: FrameColors{
			Border: BorderColors{
				FgColor:    NewColor("#44475a"),
				FocusColor: NewColor("#6272a4"),
			},
			Title: TitleColors{
				FgColor:        NewColor("#f8f8f2"),
				HighlightColor: NewColor("#f1fa8c"),
			},
		},
		List: ListColors{
			SenderColor:   NewColor("#ffb86c"),
			SubjectColor:  NewColor("#f8f8f2"),
			DateColor:     NewColor("#6272a4"),
			SnippetColor:  NewColor("#6272a4"),
			SelectedColor: NewColor("#44475a"),
		},
		Toast: ToastColors{
			SuccessColor: NewColor("#50fa7b"),
			ErrorColor:   NewColor("#ff5555"),
			InfoColor:    NewColor("#8be9fd"),
		},
		Reply: ReplyColors{
			LockedColor:   NewColor("#6272a4"),
			EditableColor: NewColor("#50fa7b"),
			SendingColor:  NewColor("#f1fa8c"),
		},
	}
}
