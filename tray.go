package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"

	"github.com/getlantern/systray"

	"pttdictate/pkg/dictation"
)

var (
	iconIdle      = circleIcon(color.RGBA{0x9e, 0x9e, 0x9e, 0xff})
	iconRecording = circleIcon(color.RGBA{0xe5, 0x39, 0x35, 0xff})
	iconBusy      = circleIcon(color.RGBA{0xfb, 0x8c, 0x00, 0xff})
)

// trayReporter mirrors the controller state in the system tray.
type trayReporter struct {
	hotkey string
	ready  atomic.Bool
}

func newTrayReporter(hotkey string) *trayReporter {
	return &trayReporter{hotkey: hotkey}
}

// setup runs inside systray's onReady. quit is called from the Quit item.
func (t *trayReporter) setup(quit func()) {
	systray.SetIcon(iconIdle)
	systray.SetTitle("")
	systray.SetTooltip("Hold " + t.hotkey + " to dictate")

	mQuit := systray.AddMenuItem("Quit", "Quit the application")
	go func() {
		<-mQuit.ClickedCh
		quit()
	}()
	t.ready.Store(true)
}

func (t *trayReporter) Report(ev dictation.Event) {
	if !t.ready.Load() {
		return
	}
	switch ev.Kind {
	case dictation.EventRecordingStarted:
		systray.SetIcon(iconRecording)
		systray.SetTitle("")
		systray.SetTooltip("Recording")
	case dictation.EventTranscribing:
		systray.SetIcon(iconBusy)
		systray.SetTitle("Processing...")
	case dictation.EventTranscribed, dictation.EventNoSpeech, dictation.EventNoAudio:
		systray.SetTitle("")
	case dictation.EventTranscriptionFailed, dictation.EventCaptureFailed:
		systray.SetTitle("Dictation: Error")
	case dictation.EventReady:
		systray.SetIcon(iconIdle)
		systray.SetTooltip("Hold " + t.hotkey + " to dictate")
	}
}

// circleIcon renders a filled 22x22 circle as PNG.
func circleIcon(c color.RGBA) []byte {
	const size = 22
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	center, radius := float64(size-1)/2, float64(size)/2-2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-center, float64(y)-center
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, c)
			}
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
