package models

import "fmt"

// Section — именованный раздел сайта со своим списком изображений.
type Section string

const (
	SectionMain     Section = "main"
	SectionAbout    Section = "about"
	SectionWeddings Section = "weddings"
	SectionPortrait Section = "portrait"
)

// Sections перечисляет все разделы в порядке инициализации хранилищ.
var Sections = []Section{SectionMain, SectionAbout, SectionWeddings, SectionPortrait}

// ParseSection разбирает имя раздела из URL/конфига.
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

func (s Section) Valid() bool {
	_, err := ParseSection(string(s))
	return err == nil
}

// HasText — есть ли у раздела редактируемый текст.
func (s Section) HasText() bool {
	return s == SectionAbout || s == SectionWeddings
}

// Cap — максимум видимых изображений; 0 = без ограничения.
func (s Section) Cap() int {
	switch s {
	case SectionAbout, SectionPortrait:
		return 1
	}
	return 0
}

func (s Section) String() string { return string(s) }
