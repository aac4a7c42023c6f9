package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/songkeeper/internal/client/api"
)

func (a *App) ListSongs(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("usage: songs [page]")
		}
		page = n
	}

	p, err := a.api.ListSongs(ctx, page)
	if err != nil {
		return err
	}

	a.printSongs(p.Records)
	fmt.Fprintf(a.out, "page %d of %d (%d songs)\n", p.PageNumber, p.TotalPages, p.TotalCount)
	return nil
}

func (a *App) MySongs(ctx context.Context) error {
	songs, err := a.api.MySongs(ctx, a.userID)
	if err != nil {
		return err
	}
	a.printSongs(songs)
	return nil
}

func (a *App) printSongs(songs []api.Song) {
	if len(songs) == 0 {
		fmt.Fprintln(a.out, "no songs")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tARTIST\tLENGTH")
	for _, s := range songs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Name, s.Artist, formatLength(s.Length))
	}
	_ = tw.Flush()
}

// readFile is a test seam.
var readFile = os.ReadFile

func formatLength(seconds int64) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseIDArg(args, "show <id>")
	if err != nil {
		return err
	}

	d, err := a.api.GetSong(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "#%d %s by %s (%s), owner %s\n", d.ID, d.Name, d.Artist, formatLength(d.Length), d.OwnerID)
	if d.Album != nil {
		fmt.Fprintf(a.out, "album: %s\n", *d.Album)
	}
	if d.Genre != nil {
		fmt.Fprintf(a.out, "genre: %s\n", *d.Genre)
	}
	for _, r := range d.Reviews {
		text := ""
		if r.Text != nil {
			text = *r.Text
		}
		fmt.Fprintf(a.out, "  review #%d by %s: %d/5 %s\n", r.ID, r.OwnerID, r.Rating, text)
	}
	if len(d.Photos) > 0 {
		fmt.Fprintf(a.out, "  %d photo(s)\n", len(d.Photos))
	}
	return nil
}

func (a *App) AddSong(ctx context.Context) error {
	s := api.NewSong{OwnerID: a.userID}

	var err error
	if s.Name, err = getSimpleText(a.reader, "Song name", a.out); err != nil {
		return err
	}
	if s.Artist, err = getSimpleText(a.reader, "Artist", a.out); err != nil {
		return err
	}
	if s.Length, err = GetInt(a.reader, "Length in seconds", a.out); err != nil {
		return err
	}
	if s.Album, err = GetOptionalText(a.reader, "Album", a.out); err != nil {
		return err
	}
	if s.Genre, err = GetOptionalText(a.reader, "Genre", a.out); err != nil {
		return err
	}

	id, err := a.api.CreateSong(ctx, s)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Song #%d added\n", id)
	return nil
}

func (a *App) Review(ctx context.Context, args []string) error {
	songID, err := parseIDArg(args, "review <songID>")
	if err != nil {
		return err
	}

	r := api.NewReview{OwnerID: a.userID, SongID: songID}
	if r.Rating, err = GetInt(a.reader, "Rating (1-5)", a.out); err != nil {
		return err
	}
	text, err := GetMultiline(a.reader, "Review text", a.out)
	if err != nil {
		return err
	}
	if text != "" {
		r.Text = &text
	}

	id, err := a.api.CreateReview(ctx, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Review #%d added\n", id)
	return nil
}

// AddPhoto creates a photo record for a song and uploads the image file to
// the URL the server presigned for it.
func (a *App) AddPhoto(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: addphoto <songID> <file>")
	}
	songID, err := parseIDArg(args[:1], "addphoto <songID> <file>")
	if err != nil {
		return err
	}

	data, err := readFile(args[1])
	if err != nil {
		return err
	}

	p := api.NewPhoto{OwnerID: a.userID, SongID: songID}
	if p.Caption, err = GetOptionalText(a.reader, "Caption", a.out); err != nil {
		return err
	}

	id, uploadURL, err := a.api.CreatePhoto(ctx, p)
	if err != nil {
		return err
	}
	if err := a.api.Upload(ctx, uploadURL, data); err != nil {
		return fmt.Errorf("photo #%d created but upload failed: %w", id, err)
	}
	fmt.Fprintf(a.out, "Photo #%d added\n", id)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseIDArg(args, "delete <id>")
	if err != nil {
		return err
	}
	if err := a.api.DeleteSong(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Song #%d deleted\n", id)
	return nil
}
