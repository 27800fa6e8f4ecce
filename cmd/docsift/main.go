// Command docsift extracts text, metadata, images, tables and links from
// a PDF, DOCX or PPTX document, optionally shows the results, and saves
// them to the filesystem or to an SQLite database.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/docsift/docsift/config"
	"github.com/docsift/docsift/display"
	"github.com/docsift/docsift/extract"
	"github.com/docsift/docsift/loader"
	"github.com/docsift/docsift/storage"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	in := bufio.NewReader(os.Stdin)
	path := prompt(in, "Enter File Path : ")
	storageType := prompt(in, "Enter the storage type (sql or file): ")

	handle, err := loader.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer handle.Close()

	fmt.Printf("Processing %s file: %s\n", handle.Kind, path)

	engine := extract.New(handle).WithLogger(log)

	if prompt(in, "Do you want to show data(y/n) :: ") == "y" {
		if err := show(engine); err != nil {
			log.Fatal().Err(err).Msg("extracting data")
		}
	}

	var sink storage.Sink
	if storageType == "file" {
		dir := filepath.Join(cfg.OutputRoot, handle.Base()+"_files")
		sink = storage.NewFileStorage(engine, dir).WithLogger(log)
	} else {
		db, err := storage.OpenDB(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("opening database")
		}
		defer db.Close()
		st, err := storage.NewSQLStorage(engine, db)
		if err != nil {
			log.Fatal().Err(err).Msg("preparing database")
		}
		sink = st.WithLogger(log)
	}

	if err := sink.Save(); err != nil {
		log.Fatal().Err(err).Msg("saving extraction")
	}
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

// show runs the four extraction operations and renders them.
func show(engine *extract.Engine) error {
	text, err := engine.Text()
	if err != nil {
		return err
	}
	images, err := engine.Images()
	if err != nil {
		return err
	}
	links, err := engine.Links()
	if err != nil {
		return err
	}
	tables, err := engine.Tables()
	if err != nil {
		return err
	}

	display.NewPrinter(os.Stdout).Show(engine.Kind(), display.Data{
		Text:   text,
		Images: images,
		Links:  links,
		Tables: tables,
	})
	return nil
}
