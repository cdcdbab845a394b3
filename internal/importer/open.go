package importer

import (
	"os/exec"
	"runtime"
)

// Opener hands a file to whatever the desktop uses to open it.
type Opener interface {
	Open(path string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) error

func (f OpenerFunc) Open(path string) error {
	return f(path)
}

// SystemOpener opens files with the OS default handler.
var SystemOpener Opener = OpenerFunc(OpenWithDefaultApp)

// OpenWithDefaultApp starts the platform's default handler for path and
// returns without waiting for it.
func OpenWithDefaultApp(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
