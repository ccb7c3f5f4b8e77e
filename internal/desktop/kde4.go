package desktop

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
)

const kdeScript = `var wallpaper = %s;
var activity = activities()[0];
activity.currentConfigGroup = new Array("Wallpaper", "image");
activity.writeConfig("wallpaper", wallpaper);
activity.writeConfig("userswallpaper", wallpaper);
activity.reloadConfig();
`

// kde4 drives the Plasma scripting console through qdbus.
type kde4 struct {
	runner  Runner
	tempDir string // Defaults to os.TempDir()
}

func (k *kde4) Apply(ctx context.Context, path string) {
	logger := log.WithField("desktop", KDE4)

	script, err := k.writeScript(path)
	if err != nil {
		logger.Debugf("Could not write script: %v", err)
		return
	}
	defer func() {
		if err := os.Remove(script); err != nil && !os.IsNotExist(err) {
			logger.Debugf("Could not remove %s: %v", script, err)
		}
	}()

	err = k.runner.Run(ctx, "qdbus", "org.kde.plasma-desktop", "/MainApplication", "loadScriptInInteractiveConsole", script)
	if err != nil {
		logger.Debugf("qdbus failed: %v", err)
	}
}

// writeScript stores the Plasma script for path in a fresh temporary file.
func (k *kde4) writeScript(path string) (string, error) {
	// The JSON encoder would turn invalid bytes into U+FFFD and name another file.
	if !utf8.ValidString(path) {
		return "", fmt.Errorf("path %q is not valid UTF-8", path)
	}

	literal, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(path)
	if err != nil {
		return "", fmt.Errorf("could not quote path: %w", err)
	}

	f, err := os.CreateTemp(k.tempDir, "setbackground-*.js")
	if err != nil {
		return "", err
	}
	if _, err := fmt.Fprintf(f, kdeScript, literal); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
