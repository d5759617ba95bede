package handlers

import (
	"io/fs"
	"net/http"
)

// noListFS отдаёт только файлы: каталоги выглядят как несуществующие,
// так что /uploads/<section>/ не раскрывает список загрузок.
type noListFS struct {
	http.FileSystem
}

func (n noListFS) Open(name string) (http.File, error) {
	f, err := n.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
