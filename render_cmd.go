package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/canvas"
	"github.com/dgnsrekt/memegen/internal/meme"
	"github.com/dgnsrekt/memegen/internal/speech"
	"github.com/spf13/cobra"
)

var (
	renderTop    string
	renderBottom string
	renderSay    bool

	renderCmd = &cobra.Command{
		Use:   "render IMAGE",
		Short: "Caption an image without the TUI",
		Long: paragraph(fmt.Sprintf("\n%s a captioned meme straight to a file. With --say the captions are also read aloud.",
			keyword("Render"))),
		Example: paragraph("memegen render doge.jpg --top \"such caption\" --bottom wow\nmemegen render cat.png -t hello -b world -o out.webp --say"),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			opts := renderOptions{
				Image:   args[0],
				Caption: meme.Caption{Top: renderTop, Bottom: renderBottom},
				Out:     outPath,
				Voice:   voice,
				Volume:  volume,
			}
			if renderSay {
				synth, err := newSynthesizer(ttsEngine, false)
				if err != nil {
					return err
				}
				defer func() { _ = synth.Close() }()
				opts.Speaker = synth
			}
			return renderMeme(ctx, opts, cmd.OutOrStdout())
		},
	}
)

// speaker is what render needs from a synthesizer to read captions aloud.
type speaker interface {
	meme.Speaker
	Drain(ctx context.Context) error
	Errors() <-chan error
}

type renderOptions struct {
	Image   string
	Caption meme.Caption
	Out     string
	Voice   string
	Volume  int

	// Speaker reads the captions after saving. Nil skips speech.
	Speaker speaker
}

// fixedForm is a meme.Form with values known up front.
type fixedForm struct {
	caption meme.Caption
	voice   string
}

func (f fixedForm) Caption() meme.Caption { return f.caption }
func (f fixedForm) SelectedVoice() string { return f.voice }

// mute is the speaker used when nothing should be read aloud.
type mute struct{}

func (mute) Voices() []speech.Voice { return nil }
func (mute) Speak(speech.Utterance) {}

// renderMeme runs the same load, generate and read steps as the editor and
// writes the result.
func renderMeme(ctx context.Context, opts renderOptions, w io.Writer) error {
	pic, err := canvas.Load(opts.Image)
	if err != nil {
		return err
	}

	c, err := canvas.New(canvasWidth, canvasHeight)
	if err != nil {
		return err
	}

	var sp meme.Speaker = mute{}
	if opts.Speaker != nil {
		sp = opts.Speaker
	}
	form := fixedForm{caption: opts.Caption, voice: opts.Voice}

	ctrlOpts := []meme.Option{meme.WithFitMode(fitMode)}
	if resetOnLoad {
		ctrlOpts = append(ctrlOpts, meme.WithResetOnLoad())
	}
	ctrl, err := meme.NewController(c, sp, form, ctrlOpts...)
	if err != nil {
		return err
	}

	if err := ctrl.ImageLoaded(pic); err != nil {
		return fmt.Errorf("unable to place %s: %w", pic.Name, err)
	}
	ctrl.Submit()

	out := opts.Out
	if out == "" {
		out = defaultOutputPath(opts.Image)
	}
	if err := c.Save(out); err != nil {
		return fmt.Errorf("unable to save meme: %w", err)
	}
	p, _ := ctrl.Placement()
	log.Debug("rendered meme", "image", pic.Name, "placement", p, "out", out)
	fmt.Fprintln(w, "Wrote meme to:", keyword(out))

	if opts.Speaker == nil {
		return nil
	}
	ctrl.VolumeChanged(opts.Volume)
	ctrl.Read()
	if err := opts.Speaker.Drain(ctx); err != nil {
		return fmt.Errorf("speech interrupted: %w", err)
	}
	return pendingErrors(opts.Speaker.Errors())
}

// defaultOutputPath puts the meme next to its source image.
func defaultOutputPath(image string) string {
	name := strings.TrimSuffix(filepath.Base(image), filepath.Ext(image))
	return filepath.Join(filepath.Dir(image), name+"-meme.png")
}

// pendingErrors joins the errors already waiting on errs.
func pendingErrors(errs <-chan error) error {
	var all []error
	for {
		select {
		case err, ok := <-errs:
			if !ok {
				return errors.Join(all...)
			}
			all = append(all, err)
		default:
			return errors.Join(all...)
		}
	}
}

func init() {
	renderCmd.Flags().StringVarP(&renderTop, "top", "t", "", "top caption")
	renderCmd.Flags().StringVarP(&renderBottom, "bottom", "b", "", "bottom caption")
	renderCmd.Flags().BoolVar(&renderSay, "say", false, "read the captions aloud after saving")
}
