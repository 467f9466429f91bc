// Command upload validates a local CNPJ file and, after confirmation, sends
// it to the configured bucket.
//
//	upload -file cnpjs.txt [-yes] [-list]
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/cnpj-upload/internal/config"
	"github.com/nexconsult/cnpj-upload/internal/logger"
	"github.com/nexconsult/cnpj-upload/internal/scanner"
	"github.com/nexconsult/cnpj-upload/internal/services"
	"github.com/nexconsult/cnpj-upload/internal/session"
	"github.com/nexconsult/cnpj-upload/internal/storage"
	"github.com/nexconsult/cnpj-upload/internal/utils"

	_ "time/tzdata"
)

const prompt = "Enviar para o bucket? [s/N] "

func main() {
	filePath := flag.String("file", "", "path of the text file with one CNPJ per line")
	assumeYes := flag.Bool("yes", false, "upload without asking for confirmation")
	list := flag.Bool("list", false, "print the valid CNPJs formatted as XX.XXX.XXX/XXXX-XX")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// stdout is reserved for the report and the prompt
	appLogger := logger.NewWithOutput(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uploader, err := storage.New(ctx, cfg.Storage, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to initialize storage: %v", err)
	}

	store := session.NewRedisStore(nil, cfg.Session.TTL, appLogger)
	svc := services.NewUploadService(cfg.Upload, store, uploader, services.NewMetrics(), appLogger)

	a := &app{
		svc:    svc,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		list:   *list,
		logger: logger.WithComponent(appLogger, "cli"),
	}
	if err := a.run(ctx, *filePath, *assumeYes); err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		os.Exit(1)
	}
}

type app struct {
	svc    *services.UploadService
	in     *bufio.Reader
	out    io.Writer
	list   bool
	logger *logrus.Entry
}

// run validates the file, prints the report and uploads it once confirmed.
// Declining the prompt is not an error.
func (a *app) run(ctx context.Context, path string, assumeYes bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	fileName := filepath.Base(path)
	if err := a.svc.CheckFile(fileName, info.Size()); err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sess, err := a.svc.CreateSession(ctx)
	if err != nil {
		return err
	}

	sess, err = a.svc.SubmitFile(ctx, sess.ID, fileName, raw)
	if errors.Is(err, services.ErrValidationFailed) {
		fmt.Fprintln(a.out, "O arquivo contém linhas que não são CNPJs válidos.")
		for _, lineErr := range sess.Report.Errors {
			fmt.Fprintln(a.out, lineErr.Reason)
		}
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "O arquivo foi validado com sucesso!")
	fmt.Fprintf(a.out, "O arquivo contém %d CNPJs válidos em %d linhas.\n",
		sess.Report.Summary.ValidCount, sess.Report.Summary.TotalLines)

	if a.list {
		a.printIdentifiers(raw)
	}

	if !assumeYes {
		ok, err := a.confirm()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Envio cancelado.")
			return nil
		}
	}

	confirmation, _, err := a.svc.ConfirmUpload(ctx, sess.ID)
	if err != nil {
		return err
	}

	a.logger.WithField("object", confirmation.ObjectPath).Debug("Upload finished")
	fmt.Fprintf(a.out, "Arquivo enviado com sucesso para o bucket %s: %s\n",
		confirmation.Bucket, confirmation.ObjectPath)
	return nil
}

// printIdentifiers lists the file in display format. raw was already
// validated, so it decodes and every non-blank line is a CNPJ.
func (a *app) printIdentifiers(raw []byte) {
	content, err := scanner.Decode(raw)
	if err != nil {
		return
	}
	for _, line := range scanner.SplitLines(content) {
		if line = strings.TrimSpace(line); line != "" {
			fmt.Fprintln(a.out, utils.FormatCNPJ(line))
		}
	}
}

func (a *app) confirm() (bool, error) {
	fmt.Fprint(a.out, prompt)

	answer, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "sim", "y", "yes":
		return true, nil
	}
	return false, nil
}
