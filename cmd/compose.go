package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"picbook/internal/pkg/storagefactory"
	"picbook/internal/server"
	"picbook/internal/service/media"
)

var composeOpts struct {
	manifest   string
	title      string
	paragraphs []string
	images     []string
	emotion    string
	output     string
	transition float64
	fade       float64
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Narrate a story and render its video from local images",
	Long: `Generate narration and subtitles for the title and every paragraph, then render
the paragraph video. The first image is the cover (paired with the title), each
following image is paired with one paragraph.`,
	Example: `  picbook compose --title "小兔的冒险" \
    --paragraph "小兔出发了。" --paragraph "小兔回家了。" \
    --image cover.png --image p1.png --image p2.png

  picbook compose --manifest story.yaml`,
	RunE: runCompose,
}

func init() {
	rootCmd.AddCommand(composeCmd)

	flags := composeCmd.Flags()
	flags.StringVarP(&composeOpts.manifest, "manifest", "m", "", "story manifest (yaml), replaces --title/--paragraph/--image")
	flags.StringVar(&composeOpts.title, "title", "", "story title (narrated over the cover)")
	flags.StringArrayVar(&composeOpts.paragraphs, "paragraph", nil, "paragraph text, repeat for each paragraph")
	flags.StringArrayVar(&composeOpts.images, "image", nil, "image path, cover first then one per paragraph")
	flags.StringVar(&composeOpts.emotion, "emotion", "happy", "narration emotion")
	flags.StringVarP(&composeOpts.output, "output", "o", "", "output video filename (default video_<unix>.mp4)")
	flags.Float64Var(&composeOpts.transition, "transition", media.DefaultTransitionSeconds, "transition duration in seconds")
	flags.Float64Var(&composeOpts.fade, "fade", media.DefaultFadeSeconds, "fade-out duration in seconds")

	composeCmd.MarkFlagsMutuallyExclusive("manifest", "title")
	composeCmd.MarkFlagsMutuallyExclusive("manifest", "paragraph")
	composeCmd.MarkFlagsMutuallyExclusive("manifest", "image")
}

func runCompose(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if composeOpts.manifest != "" {
		m, err := loadManifest(composeOpts.manifest)
		if err != nil {
			return err
		}
		composeOpts.title = m.Title
		composeOpts.paragraphs = m.paragraphs()
		composeOpts.images = m.images()
		if m.Emotion != "" && !cmd.Flags().Changed("emotion") {
			composeOpts.emotion = m.Emotion
		}
		if m.Output != "" && !cmd.Flags().Changed("output") {
			composeOpts.output = m.Output
		}
	}

	if len(composeOpts.paragraphs) == 0 {
		return fmt.Errorf("no paragraphs: use --paragraph or --manifest")
	}
	if want := len(composeOpts.paragraphs) + 1; len(composeOpts.images) != want {
		return fmt.Errorf("need %d images (cover + %d paragraphs), got %d",
			want, len(composeOpts.paragraphs), len(composeOpts.images))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.Media.TempRoot, 0o755); err != nil {
		return fmt.Errorf("create temp root: %w", err)
	}
	store, err := storagefactory.NewStorage(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	speechDir := cfg.Media.SpeechDir
	if speechDir == "" {
		speechDir = cfg.Media.TempRoot
	}
	speech, err := server.NewSpeechSynthesizer(&cfg.TTS, speechDir)
	if err != nil {
		return fmt.Errorf("failed to create speech synthesizer: %w", err)
	}

	svc := media.NewService(server.NewMediaTool(&cfg.Media), speech, store, server.NewScratch(&cfg.Media), nil, media.WithLocalInputs())

	paragraphs, err := svc.GenerateParagraphMedia(ctx, &media.ParagraphAudioRequest{
		Title:      composeOpts.title,
		Paragraphs: composeOpts.paragraphs,
		Emotion:    composeOpts.emotion,
	})
	if err != nil {
		return err
	}

	req := &media.VideoRequest{
		ImagePaths:         composeOpts.images,
		OutputFilename:     composeOpts.output,
		TransitionDuration: &composeOpts.transition,
		FadeDuration:       &composeOpts.fade,
	}
	for _, p := range paragraphs {
		if p.Error != "" {
			return fmt.Errorf("paragraph %s failed: %s", p.ParagraphID, p.Error)
		}
		req.AudioPaths = append(req.AudioPaths, p.AudioPath)
		req.SubtitlePaths = append(req.SubtitlePaths, p.SubtitlePath)
		log.Info().
			Str("paragraph_id", p.ParagraphID).
			Float64("duration", p.Duration).
			Str("strategy", p.Strategy).
			Msg("paragraph narrated")
	}

	result, err := svc.CreateParagraphVideo(ctx, req)
	if err != nil {
		return err
	}

	log.Info().
		Str("video", result.VideoPath).
		Float64("duration", result.Duration).
		Int("width", result.Width).
		Int("height", result.Height).
		Str("strategy", result.Strategy).
		Msg("video composed")
	fmt.Fprintln(cmd.OutOrStdout(), result.VideoPath)
	return nil
}
