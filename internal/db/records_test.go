package db

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"Portfolio/internal/files"
	"Portfolio/internal/models"
)

func newTestRecords(t *testing.T) *Records {
	t.Helper()
	j, _ := newTestJSON(t)
	return NewRecords(j, nil)
}

func mustAppend(t *testing.T, r *Records, sec models.Section, url string) {
	t.Helper()
	if _, err := r.AppendImage(context.Background(), sec, url); err != nil {
		t.Fatalf("AppendImage(%s, %s): %v", sec, url, err)
	}
}

func TestAppendImageIsLast(t *testing.T) {
	r := newTestRecords(t)
	ctx := context.Background()

	for _, sec := range []models.Section{models.SectionMain, models.SectionWeddings} {
		for _, u := range []string{"/uploads/x/1-a.jpg", "/uploads/x/2-b.jpg", "/uploads/x/3-c.jpg"} {
			if _, err := r.AppendImage(ctx, sec, u); err != nil {
				t.Fatalf("AppendImage: %v", err)
			}
			got := r.Images(ctx, sec)
			if got[len(got)-1] != u {
				t.Errorf("%s: last image = %q, want %q", sec, got[len(got)-1], u)
			}
		}
		if n := len(r.Images(ctx, sec)); n != 3 {
			t.Errorf("%s: expected 3 images, got %d", sec, n)
		}
	}
}

func TestAppendImageCappedSectionEvicts(t *testing.T) {
	r := newTestRecords(t)
	ctx := context.Background()

	if ev, _ := r.AppendImage(ctx, models.SectionAbout, "/uploads/about/1-me.jpg"); len(ev) != 0 {
		t.Fatalf("first append evicted %v", ev)
	}
	ev, err := r.AppendImage(ctx, models.SectionAbout, "/uploads/about/2-me.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ev, []string{"/uploads/about/1-me.jpg"}) {
		t.Errorf("evicted = %v", ev)
	}
	if got := r.Images(ctx, models.SectionAbout); !slices.Equal(got, []string{"/uploads/about/2-me.jpg"}) {
		t.Errorf("about images = %v", got)
	}
}

func TestRemoveImageExactFilename(t *testing.T) {
	r := newTestRecords(t)
	ctx := context.Background()
	for _, u := range []string{"/uploads/main/1-a.jpg", "/uploads/main/11-a.jpg", "/uploads/main/2-b.jpg"} {
		mustAppend(t, r, models.SectionMain, u)
	}

	removed, err := r.RemoveImage(ctx, models.SectionMain, "1-a.jpg")
	if err != nil || !removed {
		t.Fatalf("RemoveImage = %v, %v", removed, err)
	}
	want := []string{"/uploads/main/11-a.jpg", "/uploads/main/2-b.jpg"}
	if got := r.Images(ctx, models.SectionMain); !slices.Equal(got, want) {
		t.Errorf("images = %v, want %v (suffix match must not remove 11-a.jpg)", got, want)
	}

	removed, err = r.RemoveImage(ctx, models.SectionMain, "1-a.jpg")
	if err != nil || removed {
		t.Errorf("second RemoveImage = %v, %v; want false, nil", removed, err)
	}
}

func TestRemoveImageOtherSectionUntouched(t *testing.T) {
	r := newTestRecords(t)
	ctx := context.Background()
	mustAppend(t, r, models.SectionMain, "/uploads/main/5-x.jpg")
	mustAppend(t, r, models.SectionWeddings, "/uploads/weddings/5-x.jpg")

	if _, err := r.RemoveImage(ctx, models.SectionWeddings, "5-x.jpg"); err != nil {
		t.Fatal(err)
	}
	if got := r.Images(ctx, models.SectionMain); len(got) != 1 {
		t.Errorf("main must keep its image, got %v", got)
	}
}

func TestSetTextGetText(t *testing.T) {
	r := newTestRecords(t)
	ctx := context.Background()
	for _, text := range []string{"**Hi**\nsecond line", "", "<b>raw</b>"} {
		if err := r.SetText(ctx, models.SectionAbout, text); err != nil {
			t.Fatalf("SetText: %v", err)
		}
		if got := r.Text(ctx, models.SectionAbout); got != text {
			t.Errorf("Text = %q, want %q", got, text)
		}
	}
}

func TestSetTextKeepsImages(t *testing.T) {
	r := newTestRecords(t)
	ctx := context.Background()
	mustAppend(t, r, models.SectionWeddings, "/uploads/weddings/1-a.jpg")
	if err := r.SetText(ctx, models.SectionWeddings, "text"); err != nil {
		t.Fatal(err)
	}

	rec := r.Section(ctx, models.SectionWeddings)
	if rec.Text != "text" || len(rec.Images) != 1 {
		t.Errorf("Section = %+v", rec)
	}
}

func TestReadsNeverFail(t *testing.T) {
	r := newTestRecords(t)
	ctx := context.Background()
	if got := r.Images(ctx, models.Section("nope")); got == nil || len(got) != 0 {
		t.Errorf("Images of unknown section = %#v, want empty slice", got)
	}
	if got := r.Text(ctx, models.Section("nope")); got != "" {
		t.Errorf("Text of unknown section = %q", got)
	}
}

func TestSeed(t *testing.T) {
	r := newTestRecords(t)
	ctx := context.Background()
	fs, err := files.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"300-c.jpg", "100-a.jpg", "200-b.jpg"} {
		writeFile(t, filepath.Join(fs.Dir(models.SectionWeddings), name), "x")
		writeFile(t, filepath.Join(fs.Dir(models.SectionPortrait), name), "x")
	}
	mustAppend(t, r, models.SectionMain, "/uploads/main/existing.jpg")
	writeFile(t, filepath.Join(fs.Dir(models.SectionMain), "1-new.jpg"), "x")

	if err := r.Seed(ctx, fs); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	want := []string{"/uploads/weddings/100-a.jpg", "/uploads/weddings/200-b.jpg", "/uploads/weddings/300-c.jpg"}
	if got := r.Images(ctx, models.SectionWeddings); !slices.Equal(got, want) {
		t.Errorf("weddings = %v, want %v", got, want)
	}
	if got := r.Images(ctx, models.SectionPortrait); !slices.Equal(got, []string{"/uploads/portrait/300-c.jpg"}) {
		t.Errorf("portrait = %v, want newest only", got)
	}
	if got := r.Images(ctx, models.SectionMain); !slices.Equal(got, []string{"/uploads/main/existing.jpg"}) {
		t.Errorf("non-empty main must not be reseeded, got %v", got)
	}
}
