package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"lipsync/internal/config"
	"lipsync/internal/history"
	"lipsync/internal/logging"
	"lipsync/internal/mapping"
	"lipsync/internal/media/ffprobe"
	"lipsync/internal/services"
	"lipsync/internal/services/ffmpeg"
	"lipsync/internal/services/rhubarb"
	"lipsync/internal/timeline"
)

// Prober inspects a media file; ffprobe.Inspect in production.
type Prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Pipeline wires the external tools into the render flow.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	aligner rhubarb.Aligner
	engine  ffmpeg.Engine
	probe   Prober
	entropy timeline.Source
	store   *history.Store
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAligner overrides the phoneme aligner.
func WithAligner(aligner rhubarb.Aligner) Option {
	return func(p *Pipeline) {
		if aligner != nil {
			p.aligner = aligner
		}
	}
}

// WithEngine overrides the multimedia engine.
func WithEngine(engine ffmpeg.Engine) Option {
	return func(p *Pipeline) {
		if engine != nil {
			p.engine = engine
		}
	}
}

// WithProber overrides media inspection.
func WithProber(probe Prober) Option {
	return func(p *Pipeline) {
		if probe != nil {
			p.probe = probe
		}
	}
}

// WithEntropy overrides the blink randomness source.
func WithEntropy(src timeline.Source) Option {
	return func(p *Pipeline) {
		p.entropy = src
	}
}

// WithHistory records completed renders in the given store.
func WithHistory(store *history.Store) Option {
	return func(p *Pipeline) {
		p.store = store
	}
}

// New constructs a Pipeline from configuration. The default collaborators
// drive the configured rhubarb and ffmpeg binaries.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
		aligner: rhubarb.NewCLI(rhubarb.WithBinary(cfg.Tools.Rhubarb)),
		engine:  ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Tools.FFmpeg)),
		probe:   ffprobe.Inspect,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request names the inputs for one render.
type Request struct {
	AudioPath  string
	MouthMap   string
	BlinkMap   string
	Background string
	OutputPath string
}

// Result summarizes a completed render.
type Result struct {
	RunID        string
	OutputPath   string
	AudioSeconds float64
	MouthChunks  int
	BlinkChunks  int
}

// Run renders one video. It either writes a complete output file or returns
// an error with nothing on disk.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if req.AudioPath == "" || req.MouthMap == "" || req.OutputPath == "" {
		return Result{}, services.Wrap(services.ErrConfiguration, "pipeline", "run",
			"audio, mouth mapping, and output paths are required", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, p.logger)
	started := time.Now()

	logger.Info("render starting",
		logging.Args(
			logging.String("audio", req.AudioPath),
			logging.String("output", req.OutputPath),
		)...)

	duration, err := p.probeAudio(ctx, req.AudioPath)
	if err != nil {
		return Result{}, err
	}

	mouthChunks, err := p.buildMouthTimeline(ctx, logger, req)
	if err != nil {
		return Result{}, err
	}

	blinkChunks, err := p.buildBlinkTimeline(logger, req.BlinkMap, duration)
	if err != nil {
		return Result{}, err
	}

	composeReq := ffmpeg.Request{
		Mouth:       mouthChunks,
		Blink:       blinkChunks,
		Background:  req.Background,
		AudioPath:   req.AudioPath,
		OutputPath:  req.OutputPath,
		Codec:       p.cfg.Video.Codec,
		PixelFormat: p.cfg.Video.PixelFormat,
	}
	if err := p.engine.Compose(ctx, composeReq); err != nil {
		return Result{}, err
	}

	result := Result{
		RunID:        runID,
		OutputPath:   req.OutputPath,
		AudioSeconds: duration,
		MouthChunks:  len(mouthChunks),
		BlinkChunks:  len(blinkChunks),
	}
	p.recordHistory(ctx, logger, req, result)

	logger.Info("render complete",
		logging.Args(
			logging.String("output", req.OutputPath),
			logging.Float64("audio_seconds", duration),
			logging.Int("mouth_chunks", result.MouthChunks),
			logging.Int("blink_chunks", result.BlinkChunks),
			logging.Duration("elapsed", time.Since(started)),
		)...)
	return result, nil
}

func (p *Pipeline) probeAudio(ctx context.Context, audioPath string) (float64, error) {
	probed, err := p.probe(ctx, p.cfg.Tools.FFprobe, audioPath)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "pipeline", "probe", audioPath, err)
	}
	if probed.AudioStreamCount() == 0 {
		return 0, services.Wrap(services.ErrConfiguration, "pipeline", "probe",
			fmt.Sprintf("%s has no audio stream", audioPath), nil)
	}
	duration := probed.DurationSeconds()
	if math.IsNaN(duration) || duration <= 0 {
		return 0, services.Wrap(services.ErrConfiguration, "pipeline", "probe",
			fmt.Sprintf("%s has no usable duration", audioPath), nil)
	}
	return duration, nil
}

func (p *Pipeline) buildMouthTimeline(ctx context.Context, logger *slog.Logger, req Request) ([]timeline.Interval, error) {
	alignPath, err := p.ensureAlignable(ctx, logger, req.AudioPath)
	if err != nil {
		return nil, err
	}

	frames, err := p.aligner.Align(ctx, alignPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("alignment finished", logging.Args(logging.Int("frames", len(frames)))...)

	mouth := timeline.FromFrames(frames)
	if len(mouth) == 0 {
		return nil, services.Wrap(services.ErrNoPhonemes, "pipeline", "align",
			fmt.Sprintf("aligner produced %d usable frames", len(frames)), nil)
	}

	table, err := mapping.Load(req.MouthMap)
	if err != nil {
		return nil, err
	}
	return table.ResolveAll(mouth)
}

// ensureAlignable hands rhubarb a format it accepts, transcoding to a WAV
// next to the source when needed. The flock keeps concurrent runs against
// the same narration from clobbering each other's transcode.
func (p *Pipeline) ensureAlignable(ctx context.Context, logger *slog.Logger, audioPath string) (string, error) {
	if rhubarb.SupportsFormat(audioPath) {
		return audioPath, nil
	}

	wavPath := audioPath + ".wav"
	lockPath := wavPath + ".lock"
	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "pipeline", "transcode", "acquire lock", err)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}()

	logger.Info("transcoding narration for alignment",
		logging.Args(logging.String("source", audioPath), logging.String("wav", wavPath))...)
	if err := p.engine.Transcode(ctx, audioPath, wavPath); err != nil {
		return "", err
	}
	return wavPath, nil
}

func (p *Pipeline) buildBlinkTimeline(logger *slog.Logger, blinkMap string, duration float64) ([]timeline.Interval, error) {
	if blinkMap == "" {
		return nil, nil
	}

	table, err := mapping.Load(blinkMap)
	if err != nil {
		return nil, err
	}
	blinks := timeline.Blink(duration, p.cfg.Blink.MinWait, p.cfg.Blink.MaxWait, p.cfg.Blink.FrameRate, p.entropy)
	logger.Debug("blink timeline built",
		logging.Args(
			logging.Int("cycles", len(blinks)/3),
			logging.Float64("covered_seconds", timeline.Total(blinks)),
		)...)
	return table.ResolveAll(blinks)
}

func (p *Pipeline) recordHistory(ctx context.Context, logger *slog.Logger, req Request, result Result) {
	if p.store == nil {
		return
	}
	entry := history.Entry{
		RunID:        result.RunID,
		AudioPath:    req.AudioPath,
		OutputPath:   result.OutputPath,
		AudioSeconds: result.AudioSeconds,
		MouthChunks:  result.MouthChunks,
		BlinkChunks:  result.BlinkChunks,
	}
	if _, err := p.store.Record(ctx, entry); err != nil {
		// History is best effort; a failed insert never fails the render.
		logger.Warn("history record failed", logging.Args(logging.Error(err))...)
	}
}
