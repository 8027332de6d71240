package enroll

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/logger"
)

const (
	menuPrompt    = "Choose training method: (1) Webcam (2) File (3) Dataset Folder (or type 'exit' to quit): "
	namePrompt    = "Enter the name of the person to train: "
	filePrompt    = "Enter the file path: "
	folderPrompt  = "Enter the dataset folder path: "
	invalidChoice = "Invalid choice. Please select 1, 2, or 3."
	exitMessage   = "Exiting training."
)

// MenuActions are the enrollment modes offered by the interactive menu
type MenuActions struct {
	Webcam func(ctx context.Context, name string) error
	File   func(ctx context.Context, path, name string) error
	Folder func(ctx context.Context, path string) error
}

// RunMenu prompts on out for an enrollment mode and its inputs, read line by
// line from in, until "exit" or end of input. A failing action is logged and
// the menu is shown again. Only cancellation of ctx ends the menu with an error.
func RunMenu(ctx context.Context, in io.Reader, out io.Writer, actions MenuActions, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	scanner := bufio.NewScanner(in)
	ask := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, ok := ask(menuPrompt)
		if !ok || strings.EqualFold(choice, "exit") {
			if !ok {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, exitMessage)
			return nil
		}

		var err error
		switch choice {
		case "1":
			name, ok := ask(namePrompt)
			if !ok {
				continue
			}
			err = actions.Webcam(ctx, name)
		case "2":
			name, ok := ask(namePrompt)
			if !ok {
				continue
			}
			path, ok := ask(filePrompt)
			if !ok {
				continue
			}
			err = actions.File(ctx, path, name)
		case "3":
			path, ok := ask(folderPrompt)
			if !ok {
				continue
			}
			err = actions.Folder(ctx, path)
		default:
			fmt.Fprintln(out, invalidChoice)
			continue
		}

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error(err, "Training failed")
		}
	}
}
