package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iamfgo/iamf"
	"github.com/iamfgo/iamf/internal/cliconfig"
	"github.com/rs/zerolog"
)

const (
	exitOK    = 0
	exitError = 1
)

// DecodeOptions collects the decode and probe subcommand flags;
// resolveSettings merges them over the YAML config file named by Config
// (flags win on conflict).
type DecodeOptions struct {
	Input           string
	Output          string
	MixID           *uint32
	OutputLayout    string
	Profiles        []string
	ChannelOrdering string
	SampleType      string
	Config          string
}

// RunDecode decodes opts.Input to raw interleaved PCM, written to
// opts.Output (or stdout when empty).
func RunDecode(opts DecodeOptions, stdout, stderr io.Writer) int {
	settings, err := resolveSettings(opts, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	out := stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitError
		}
		defer f.Close()
		out = f
	}

	n, err := decodeAll(settings, data, out)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	if opts.Output != "" {
		fmt.Fprintf(stderr, "wrote %d bytes of PCM to %s\n", n, opts.Output)
	}
	return exitOK
}

// RunProbe prints descriptor metadata for opts.Input without decoding any
// temporal units.
func RunProbe(opts DecodeOptions, stdout, stderr io.Writer) int {
	settings, err := resolveSettings(opts, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	d, err := iamf.Create(settings)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	if err := d.Decode(data); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	if !d.IsDescriptorProcessingComplete() {
		fmt.Fprintln(stdout, "descriptors incomplete: feed more bytes")
		return exitOK
	}

	layout, _ := d.GetOutputLayout()
	mix, _ := d.GetOutputMix()
	rate, _ := d.GetSampleRate()
	frameSize, _ := d.GetFrameSize()
	channels, _ := d.GetNumberOfOutputChannels()
	fmt.Fprintf(stdout, "mix presentation: %d\n", mix.MixPresentationID)
	fmt.Fprintf(stdout, "output layout: %s (%d channels)\n", layout, channels)
	fmt.Fprintf(stdout, "sample rate: %d\n", rate)
	fmt.Fprintf(stdout, "frame size: %d\n", frameSize)
	return exitOK
}

// decodeAll drives the full streaming lifecycle: push every byte, signal
// end of stream, then drain every pending frame to out.
func decodeAll(settings iamf.Settings, data []byte, out io.Writer) (int, error) {
	d, err := iamf.Create(settings)
	if err != nil {
		return 0, err
	}
	if err := d.Decode(data); err != nil {
		return 0, err
	}
	if !d.IsDescriptorProcessingComplete() {
		return 0, fmt.Errorf("incomplete descriptor set")
	}
	// The descriptor-only-first-call policy means no frame was pulled yet;
	// a no-op Decode drives the pump for any temporal units already buffered.
	if err := d.Decode(nil); err != nil {
		return 0, err
	}
	if err := d.SignalEndOfStream(); err != nil {
		return 0, err
	}

	total := 0
	buf := make([]byte, 0)
	for d.IsTemporalUnitAvailable() {
		channels, err := d.GetNumberOfOutputChannels()
		if err != nil {
			return total, err
		}
		frameSize, err := d.GetFrameSize()
		if err != nil {
			return total, err
		}
		sampleType, err := d.GetOutputSampleType()
		if err != nil {
			return total, err
		}
		need := channels * int(frameSize) * sampleType.BytesPerSample()
		if cap(buf) < need {
			buf = make([]byte, need)
		}
		n, err := d.GetOutputTemporalUnit(buf[:need])
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
		if _, err := out.Write(buf[:n]); err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func resolveSettings(opts DecodeOptions, logOut io.Writer) (iamf.Settings, error) {
	cfg, err := cliconfig.Load(opts.Config)
	if err != nil {
		return iamf.Settings{}, err
	}

	var logger *zerolog.Logger
	if cfg.LogLevel != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
		if err != nil {
			return iamf.Settings{}, fmt.Errorf("unrecognised log_level %q: %w", cfg.LogLevel, err)
		}
		l := zerolog.New(logOut).Level(level).With().Timestamp().Logger()
		logger = &l
	}

	layoutName := opts.OutputLayout
	if layoutName == "" {
		layoutName = cfg.RequestedMix.OutputLayout
	}
	var layout *iamf.SoundSystem
	if layoutName != "" {
		ss, ok := parseSoundSystem(layoutName)
		if !ok {
			return iamf.Settings{}, fmt.Errorf("unrecognised output layout %q", layoutName)
		}
		layout = &ss
	}

	var mixID *uint32
	if opts.MixID != nil {
		mixID = opts.MixID
	} else if cfg.RequestedMix.MixPresentationID != nil {
		mixID = cfg.RequestedMix.MixPresentationID
	}

	profileNames := opts.Profiles
	if len(profileNames) == 0 {
		profileNames = cfg.RequestedProfileVersions
	}
	profiles := map[iamf.ProfileVersion]struct{}{}
	for _, name := range profileNames {
		p, ok := parseProfile(name)
		if !ok {
			return iamf.Settings{}, fmt.Errorf("unrecognised profile %q", name)
		}
		profiles[p] = struct{}{}
	}

	ordering := opts.ChannelOrdering
	if ordering == "" {
		ordering = cfg.ChannelOrdering
	}
	scheme := iamf.ChannelOrderingIamfDefault
	if strings.EqualFold(ordering, "android") {
		scheme = iamf.ChannelOrderingAndroidConvention
	}

	sampleTypeName := opts.SampleType
	if sampleTypeName == "" {
		sampleTypeName = cfg.RequestedOutputSampleType
	}
	var sampleType *iamf.OutputSampleType
	switch strings.ToLower(sampleTypeName) {
	case "", "int32", "int32littleendian":
		// leave nil: Settings defaults to Int32LittleEndian
	case "int16", "int16littleendian":
		t := iamf.OutputSampleTypeInt16LittleEndian
		sampleType = &t
	default:
		return iamf.Settings{}, fmt.Errorf("unrecognised sample type %q", sampleTypeName)
	}

	return iamf.Settings{
		RequestedMix: iamf.RequestedMix{
			MixPresentationID:        mixID,
			OutputLayout:             layout,
			RequestedProfileVersions: profiles,
		},
		ChannelOrdering:           scheme,
		RequestedOutputSampleType: sampleType,
		Logger:                    logger,
	}, nil
}

func parseSoundSystem(name string) (iamf.SoundSystem, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "A":
		return iamf.SoundSystemA, true
	case "B":
		return iamf.SoundSystemB, true
	case "C":
		return iamf.SoundSystemC, true
	case "D":
		return iamf.SoundSystemD, true
	case "E":
		return iamf.SoundSystemE, true
	case "F":
		return iamf.SoundSystemF, true
	case "G":
		return iamf.SoundSystemG, true
	case "H":
		return iamf.SoundSystemH, true
	case "I":
		return iamf.SoundSystemI, true
	case "J":
		return iamf.SoundSystemJ, true
	case "10":
		return iamf.SoundSystem10, true
	case "11":
		return iamf.SoundSystem11, true
	case "12":
		return iamf.SoundSystem12, true
	case "13":
		return iamf.SoundSystem13, true
	default:
		return 0, false
	}
}

func parseProfile(name string) (iamf.ProfileVersion, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "simple":
		return iamf.ProfileSimple, true
	case "base":
		return iamf.ProfileBase, true
	case "baseenhanced", "base_enhanced", "base-enhanced":
		return iamf.ProfileBaseEnhanced, true
	default:
		return 0, false
	}
}

// ParseMixID is a small helper shared by the cobra flag wiring in
// cmd/iamfdecode, kept here so cli stays the single owner of string->typed
// flag parsing for this program.
func ParseMixID(s string) (*uint32, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid mix id %q: %w", s, err)
	}
	id := uint32(v)
	return &id, nil
}
