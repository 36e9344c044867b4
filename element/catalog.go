package element

import (
	"github.com/c360/pipewright/caps"
)

// Builtin returns a registry preloaded with the stock element catalog
func Builtin() *StaticRegistry {
	r := NewStaticRegistry()
	for _, info := range builtinCatalog() {
		// catalog entries are static and validated by tests
		_ = r.Register(info)
	}
	return r
}

func intPtr(v int) *int { return &v }

func srcAlways(c string) PadTemplate {
	return PadTemplate{Name: "src", Direction: DirectionSrc, Presence: PresenceAlways, Caps: caps.MustParse(c)}
}

func sinkAlways(c string) PadTemplate {
	return PadTemplate{Name: "sink", Direction: DirectionSink, Presence: PresenceAlways, Caps: caps.MustParse(c)}
}

const (
	rawVideoAll = "video/x-raw, format={ I420, YV12, NV12, RGBA, BGRA, RGBx, BGRx, RGB, BGR, GRAY8 }, width=[ 1, 2147483647 ], height=[ 1, 2147483647 ], framerate=[ 0/1, 2147483647/1 ]"
	rawAudioAll = "audio/x-raw, format={ S16LE, S32LE, F32LE, F64LE, U8 }, rate=[ 1, 2147483647 ], channels=[ 1, 256 ]"
)

func builtinCatalog() []Info {
	return []Info{
		{
			Name:        "videotestsrc",
			LongName:    "Video test source",
			Description: "Creates a test video stream",
			Klass:       "Source/Video",
			Plugin:      "videotestsrc",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				srcAlways("video/x-raw, format={ I420, YV12, NV12, RGBA, BGRx }, width=[ 1, 2147483647 ], height=[ 1, 2147483647 ], framerate=[ 0/1, 2147483647/1 ]"),
			},
			Properties: []Property{
				{Name: "pattern", Type: "enum", Description: "Type of test pattern to generate", Default: "smpte", Enum: []string{"smpte", "snow", "black", "white", "ball"}},
				{Name: "num-buffers", Type: "int", Description: "Number of buffers to output before sending EOS (-1 = unlimited)", Default: -1, Minimum: intPtr(-1)},
				{Name: "is-live", Type: "bool", Description: "Whether to act as a live source", Default: false},
			},
		},
		{
			Name:        "audiotestsrc",
			LongName:    "Audio test source",
			Description: "Creates audio test signals of given frequency and volume",
			Klass:       "Source/Audio",
			Plugin:      "audiotestsrc",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				srcAlways("audio/x-raw, format={ S16LE, S32LE, F32LE, F64LE }, rate=[ 1, 2147483647 ], channels=[ 1, 2 ]"),
			},
			Properties: []Property{
				{Name: "wave", Type: "enum", Description: "Oscillator waveform", Default: "sine", Enum: []string{"sine", "square", "saw", "triangle", "silence", "white-noise"}},
				{Name: "freq", Type: "int", Description: "Frequency of test signal", Default: 440, Minimum: intPtr(0)},
				{Name: "num-buffers", Type: "int", Description: "Number of buffers to output before sending EOS (-1 = unlimited)", Default: -1, Minimum: intPtr(-1)},
				{Name: "is-live", Type: "bool", Description: "Whether to act as a live source", Default: false},
			},
		},
		{
			Name:        "filesrc",
			LongName:    "File Source",
			Description: "Read from arbitrary point in a file",
			Klass:       "Source/File",
			Plugin:      "coreelements",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				srcAlways("ANY"),
			},
			Properties: []Property{
				{Name: "location", Type: "string", Description: "Location of the file to read"},
				{Name: "blocksize", Type: "uint", Description: "Size in bytes to read per buffer", Default: 4096, Minimum: intPtr(1)},
			},
		},
		{
			Name:        "udpsrc",
			LongName:    "UDP packet receiver",
			Description: "Receive data over the network via UDP",
			Klass:       "Source/Network",
			Plugin:      "udp",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				srcAlways("ANY"),
			},
			Properties: []Property{
				{Name: "port", Type: "int", Description: "The port to receive the packets from", Default: 5004, Minimum: intPtr(0), Maximum: intPtr(65535)},
				{Name: "address", Type: "string", Description: "Address to receive packets for", Default: "0.0.0.0"},
				{Name: "caps", Type: "caps", Description: "The caps of the source pad"},
			},
		},
		{
			Name:        "v4l2src",
			LongName:    "Video (video4linux2) Source",
			Description: "Reads frames from a Video4Linux2 device",
			Klass:       "Source/Video/Device",
			Plugin:      "video4linux2",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				srcAlways("video/x-raw, format={ I420, YV12, NV12 }, width=[ 1, 32768 ], height=[ 1, 32768 ], framerate=[ 0/1, 2147483647/1 ]; image/jpeg, width=[ 1, 32768 ], height=[ 1, 32768 ]"),
			},
			Properties: []Property{
				{Name: "device", Type: "string", Description: "Device location", Default: "/dev/video0"},
				{Name: "num-buffers", Type: "int", Description: "Number of buffers to output before sending EOS (-1 = unlimited)", Default: -1, Minimum: intPtr(-1)},
			},
		},
		{
			Name:        "fakesink",
			LongName:    "Fake Sink",
			Description: "Black hole for data",
			Klass:       "Sink",
			Plugin:      "coreelements",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways("ANY"),
			},
			Properties: []Property{
				{Name: "sync", Type: "bool", Description: "Sync on the clock", Default: false},
				{Name: "silent", Type: "bool", Description: "Don't produce last-message events", Default: true},
			},
		},
		{
			Name:        "filesink",
			LongName:    "File Sink",
			Description: "Write stream to a file",
			Klass:       "Sink/File",
			Plugin:      "coreelements",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("ANY"),
			},
			Properties: []Property{
				{Name: "location", Type: "string", Description: "Location of the file to write"},
				{Name: "sync", Type: "bool", Description: "Sync on the clock", Default: false},
			},
		},
		{
			Name:        "autovideosink",
			LongName:    "Auto video sink",
			Description: "Wrapper video sink for automatically detected video sink",
			Klass:       "Sink/Video",
			Plugin:      "autodetect",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways("video/x-raw, format={ I420, YV12, NV12, RGBA, BGRx }, width=[ 1, 2147483647 ], height=[ 1, 2147483647 ], framerate=[ 0/1, 2147483647/1 ]"),
			},
			Properties: []Property{
				{Name: "sync", Type: "bool", Description: "Sync on the clock", Default: true},
			},
		},
		{
			Name:        "autoaudiosink",
			LongName:    "Auto audio sink",
			Description: "Wrapper audio sink for automatically detected audio sink",
			Klass:       "Sink/Audio",
			Plugin:      "autodetect",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways(rawAudioAll),
			},
			Properties: []Property{
				{Name: "sync", Type: "bool", Description: "Sync on the clock", Default: true},
			},
		},
		{
			Name:        "udpsink",
			LongName:    "UDP packet sender",
			Description: "Send data over the network via UDP",
			Klass:       "Sink/Network",
			Plugin:      "udp",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways("ANY"),
			},
			Properties: []Property{
				{Name: "host", Type: "string", Description: "The host/IP/Multicast group to send the packets to", Default: "localhost"},
				{Name: "port", Type: "int", Description: "The port to send the packets to", Default: 5004, Minimum: intPtr(0), Maximum: intPtr(65535)},
			},
		},
		{
			Name:        "rtmpsink",
			LongName:    "RTMP output sink",
			Description: "Sends FLV content to a server via RTMP",
			Klass:       "Sink/Network",
			Plugin:      "rtmp",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("video/x-flv"),
			},
			Properties: []Property{
				{Name: "location", Type: "string", Description: "RTMP url to stream to"},
				{Name: "sync", Type: "bool", Description: "Sync on the clock", Default: true},
			},
		},
		{
			Name:        "videoconvert",
			LongName:    "Colorspace converter",
			Description: "Converts video from one colorspace to another",
			Klass:       "Filter/Converter/Video",
			Plugin:      "videoconvertscale",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways(rawVideoAll),
				srcAlways(rawVideoAll),
			},
			Properties: []Property{
				{Name: "n-threads", Type: "uint", Description: "Maximum number of conversion threads (0 = auto)", Default: 1, Minimum: intPtr(0)},
			},
		},
		{
			Name:        "videoscale",
			LongName:    "Video scaler",
			Description: "Resizes video frames",
			Klass:       "Filter/Converter/Video/Scaler",
			Plugin:      "videoconvertscale",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways(rawVideoAll),
				srcAlways(rawVideoAll),
			},
			Properties: []Property{
				{Name: "method", Type: "enum", Description: "Scaling method", Default: "bilinear", Enum: []string{"nearest-neighbour", "bilinear", "4-tap", "lanczos"}},
			},
		},
		{
			Name:        "videorate",
			LongName:    "Video rate adjuster",
			Description: "Drops and duplicates frames to match the source rate to the sink rate",
			Klass:       "Filter/Effect/Video",
			Plugin:      "videorate",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways("video/x-raw, framerate=[ 0/1, 2147483647/1 ]"),
				srcAlways("video/x-raw, framerate=[ 0/1, 2147483647/1 ]"),
			},
			Properties: []Property{
				{Name: "drop-only", Type: "bool", Description: "Only drop frames, never duplicate", Default: false},
			},
		},
		{
			Name:        "audioconvert",
			LongName:    "Audio converter",
			Description: "Convert audio to different formats",
			Klass:       "Filter/Converter/Audio",
			Plugin:      "audioconvert",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways(rawAudioAll),
				srcAlways(rawAudioAll),
			},
			Properties: []Property{},
		},
		{
			Name:        "audioresample",
			LongName:    "Audio resampler",
			Description: "Resamples audio to different sample rates",
			Klass:       "Filter/Converter/Audio/Resampler",
			Plugin:      "audioresample",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("audio/x-raw, rate=[ 1, 2147483647 ]"),
				srcAlways("audio/x-raw, rate=[ 1, 2147483647 ]"),
			},
			Properties: []Property{
				{Name: "quality", Type: "int", Description: "Resampling quality, higher is better", Default: 4, Minimum: intPtr(0), Maximum: intPtr(10)},
			},
		},
		{
			Name:        "volume",
			LongName:    "Volume",
			Description: "Set volume on audio streams",
			Klass:       "Filter/Effect/Audio",
			Plugin:      "volume",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways("audio/x-raw, format={ S16LE, F32LE, F64LE }, rate=[ 1, 2147483647 ], channels=[ 1, 256 ]"),
				srcAlways("audio/x-raw, format={ S16LE, F32LE, F64LE }, rate=[ 1, 2147483647 ], channels=[ 1, 256 ]"),
			},
			Properties: []Property{
				{Name: "volume", Type: "fraction", Description: "Volume factor, 1.0 = 100%", Default: "1/1"},
				{Name: "mute", Type: "bool", Description: "Mute the audio channel", Default: false},
			},
		},
		{
			Name:        "level",
			LongName:    "Level",
			Description: "RMS/Peak/Decaying Peak level signaller for audio",
			Klass:       "Filter/Analyzer/Audio",
			Plugin:      "level",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways("audio/x-raw, format={ S16LE, S32LE, F32LE, F64LE }, rate=[ 1, 2147483647 ], channels=[ 1, 256 ]"),
				srcAlways("audio/x-raw, format={ S16LE, S32LE, F32LE, F64LE }, rate=[ 1, 2147483647 ], channels=[ 1, 256 ]"),
			},
			Properties: []Property{
				{Name: "interval", Type: "uint", Description: "Interval of time between message posts (ns)", Default: 100000000},
			},
		},
		{
			Name:        "textoverlay",
			LongName:    "Text overlay",
			Description: "Adds text strings on top of a video buffer",
			Klass:       "Filter/Editor/Video",
			Plugin:      "pango",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				PadTemplate{Name: "video_sink", Direction: DirectionSink, Presence: PresenceAlways, Caps: caps.MustParse(rawVideoAll)},
				srcAlways(rawVideoAll),
			},
			Properties: []Property{
				{Name: "text", Type: "string", Description: "Text to be displayed"},
				{Name: "font-desc", Type: "string", Description: "Pango font description of font to be used"},
			},
		},
		{
			Name:        "identity",
			LongName:    "Identity",
			Description: "Pass data without modification",
			Klass:       "Generic",
			Plugin:      "coreelements",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways("ANY"),
				srcAlways("ANY"),
			},
			Properties: []Property{
				{Name: "silent", Type: "bool", Description: "Don't produce last-message events", Default: true},
				{Name: "error-after", Type: "int", Description: "Error after N buffers (-1 = never)", Default: -1, Minimum: intPtr(-1)},
				{Name: "sleep-time", Type: "uint", Description: "Microseconds to sleep between processing", Default: 0},
			},
		},
		{
			Name:        "queue",
			LongName:    "Queue",
			Description: "Simple data queue",
			Klass:       "Generic",
			Plugin:      "coreelements",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways("ANY"),
				srcAlways("ANY"),
			},
			Properties: []Property{
				{Name: "max-size-buffers", Type: "uint", Description: "Max number of buffers in the queue (0 = disable)", Default: 200},
				{Name: "max-size-bytes", Type: "uint", Description: "Max amount of bytes in the queue (0 = disable)", Default: 10485760},
				{Name: "leaky", Type: "enum", Description: "Where the queue leaks, if at all", Default: "no", Enum: []string{"no", "upstream", "downstream"}},
			},
		},
		{
			Name:        "capsfilter",
			LongName:    "CapsFilter",
			Description: "Pass data without modification, limiting formats",
			Klass:       "Generic",
			Plugin:      "coreelements",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways("ANY"),
				srcAlways("ANY"),
			},
			Properties: []Property{
				{Name: "caps", Type: "caps", Description: "Restrict the possible allowed capabilities"},
			},
		},
		{
			Name:        "x264enc",
			LongName:    "x264 H.264 encoder",
			Description: "H.264 video encoder based on libx264",
			Klass:       "Codec/Encoder/Video",
			Plugin:      "x264",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("video/x-raw, format={ I420, YV12, NV12 }, width=[ 1, 2147483647 ], height=[ 1, 2147483647 ], framerate=[ 0/1, 2147483647/1 ]"),
				srcAlways("video/x-h264, stream-format={ avc, byte-stream }, alignment=au, width=[ 1, 2147483647 ], height=[ 1, 2147483647 ]"),
			},
			Properties: []Property{
				{Name: "bitrate", Type: "uint", Description: "Bitrate in kbit/sec", Default: 2048, Minimum: intPtr(1), Maximum: intPtr(2048000)},
				{Name: "tune", Type: "enum", Description: "Preset tuning", Default: "", Enum: []string{"stillimage", "fastdecode", "zerolatency"}},
				{Name: "speed-preset", Type: "enum", Description: "Preset name for speed/quality tradeoff", Default: "medium", Enum: []string{"ultrafast", "superfast", "veryfast", "faster", "fast", "medium", "slow", "slower", "veryslow"}},
				{Name: "key-int-max", Type: "uint", Description: "Maximal distance between two key-frames (0 = automatic)", Default: 0},
			},
		},
		{
			Name:        "avdec_h264",
			LongName:    "libav H.264 decoder",
			Description: "libav h264 decoder",
			Klass:       "Codec/Decoder/Video",
			Plugin:      "libav",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("video/x-h264, stream-format={ avc, byte-stream }, alignment=au"),
				srcAlways("video/x-raw, format={ I420, NV12 }, width=[ 1, 2147483647 ], height=[ 1, 2147483647 ]"),
			},
			Properties: []Property{
				{Name: "max-threads", Type: "int", Description: "Maximum number of worker threads (0 = auto)", Default: 0, Minimum: intPtr(0)},
			},
		},
		{
			Name:        "h264parse",
			LongName:    "H.264 parser",
			Description: "Parses H.264 streams",
			Klass:       "Codec/Parser/Converter/Video",
			Plugin:      "videoparsersbad",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("video/x-h264"),
				srcAlways("video/x-h264, stream-format={ avc, byte-stream }, alignment={ au, nal }"),
			},
			Properties: []Property{
				{Name: "config-interval", Type: "int", Description: "Send SPS and PPS insertion interval in seconds (0 = disabled, -1 = send with every IDR frame)", Default: 0, Minimum: intPtr(-1)},
			},
		},
		{
			Name:        "opusenc",
			LongName:    "Opus audio encoder",
			Description: "Encodes audio in Opus format",
			Klass:       "Codec/Encoder/Audio",
			Plugin:      "opus",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("audio/x-raw, format=S16LE, rate={ 8000, 12000, 16000, 24000, 48000 }, channels=[ 1, 2 ]"),
				srcAlways("audio/x-opus, rate={ 8000, 12000, 16000, 24000, 48000 }, channels=[ 1, 2 ]"),
			},
			Properties: []Property{
				{Name: "bitrate", Type: "int", Description: "Specify an encoding bitrate (in bps)", Default: 64000, Minimum: intPtr(4000), Maximum: intPtr(650000)},
			},
		},
		{
			Name:        "opusdec",
			LongName:    "Opus audio decoder",
			Description: "Decode Opus streams to raw audio",
			Klass:       "Codec/Decoder/Audio",
			Plugin:      "opus",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("audio/x-opus"),
				srcAlways("audio/x-raw, format=S16LE, rate={ 8000, 12000, 16000, 24000, 48000 }, channels=[ 1, 2 ]"),
			},
			Properties: []Property{},
		},
		{
			Name:        "lamemp3enc",
			LongName:    "L.A.M.E. mp3 encoder",
			Description: "High-quality free MP3 encoder",
			Klass:       "Codec/Encoder/Audio",
			Plugin:      "lame",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("audio/x-raw, format=S16LE, rate={ 8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000 }, channels=[ 1, 2 ]"),
				srcAlways("audio/mpeg, mpegversion=1, layer=3, rate={ 8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000 }, channels=[ 1, 2 ]"),
			},
			Properties: []Property{
				{Name: "bitrate", Type: "int", Description: "Bitrate in kbit/sec", Default: 128, Minimum: intPtr(8), Maximum: intPtr(320)},
			},
		},
		{
			Name:        "jpegenc",
			LongName:    "JPEG image encoder",
			Description: "Encode images in JPEG format",
			Klass:       "Codec/Encoder/Image",
			Plugin:      "jpeg",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("video/x-raw, format={ I420, YV12 }, width=[ 1, 65535 ], height=[ 1, 65535 ]"),
				srcAlways("image/jpeg, width=[ 1, 65535 ], height=[ 1, 65535 ]"),
			},
			Properties: []Property{
				{Name: "quality", Type: "int", Description: "Quality of encoding", Default: 85, Minimum: intPtr(0), Maximum: intPtr(100)},
			},
		},
		{
			Name:        "jpegdec",
			LongName:    "JPEG image decoder",
			Description: "Decode images from JPEG format",
			Klass:       "Codec/Decoder/Image",
			Plugin:      "jpeg",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("image/jpeg"),
				srcAlways("video/x-raw, format=I420, width=[ 1, 65535 ], height=[ 1, 65535 ]"),
			},
			Properties: []Property{},
		},
		{
			Name:        "decodebin",
			LongName:    "Decoder Bin",
			Description: "Autoplug and decode to raw media",
			Klass:       "Generic/Bin/Decoder",
			Plugin:      "playback",
			Rank:        RankNone,
			PadTemplates: []PadTemplate{
				sinkAlways("ANY"),
				PadTemplate{Name: "src_%u", Direction: DirectionSrc, Presence: PresenceSometimes, Caps: caps.NewAny()},
			},
			Properties: []Property{
				{Name: "caps", Type: "caps", Description: "The caps on which to stop decoding"},
			},
		},
		{
			Name:        "mp4mux",
			LongName:    "MP4 Muxer",
			Description: "Multiplex audio and video into a MP4 file",
			Klass:       "Codec/Muxer",
			Plugin:      "isomp4",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				PadTemplate{Name: "video_%u", Direction: DirectionSink, Presence: PresenceRequest, Caps: caps.MustParse("video/x-h264, stream-format=avc, alignment=au")},
				PadTemplate{Name: "audio_%u", Direction: DirectionSink, Presence: PresenceRequest, Caps: caps.MustParse("audio/mpeg, mpegversion=4; audio/x-opus")},
				srcAlways("video/quicktime, variant=iso"),
			},
			Properties: []Property{
				{Name: "faststart", Type: "bool", Description: "Move the index to the beginning of the file", Default: false},
			},
		},
		{
			Name:        "qtdemux",
			LongName:    "QuickTime demuxer",
			Description: "Demultiplex a QuickTime file into audio and video streams",
			Klass:       "Codec/Demuxer",
			Plugin:      "isomp4",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				sinkAlways("video/quicktime; audio/x-m4a"),
				PadTemplate{Name: "video_%u", Direction: DirectionSrc, Presence: PresenceSometimes, Caps: caps.NewAny()},
				PadTemplate{Name: "audio_%u", Direction: DirectionSrc, Presence: PresenceSometimes, Caps: caps.NewAny()},
			},
			Properties: []Property{},
		},
		{
			Name:        "flvmux",
			LongName:    "FLV muxer",
			Description: "Muxes video/audio streams into a FLV stream",
			Klass:       "Codec/Muxer",
			Plugin:      "flv",
			Rank:        RankPrimary,
			PadTemplates: []PadTemplate{
				PadTemplate{Name: "video", Direction: DirectionSink, Presence: PresenceRequest, Caps: caps.MustParse("video/x-h264, stream-format=avc")},
				PadTemplate{Name: "audio", Direction: DirectionSink, Presence: PresenceRequest, Caps: caps.MustParse("audio/mpeg, mpegversion=1, layer=3; audio/mpeg, mpegversion=4")},
				srcAlways("video/x-flv"),
			},
			Properties: []Property{
				{Name: "streamable", Type: "bool", Description: "Produce a stream without indexes, usable for live output", Default: false},
			},
		},
		{
			Name:        "rtph264pay",
			LongName:    "RTP H264 payloader",
			Description: "Payload-encode H264 video into RTP packets",
			Klass:       "Codec/Payloader/Network/RTP",
			Plugin:      "rtp",
			Rank:        RankSecondary,
			PadTemplates: []PadTemplate{
				sinkAlways("video/x-h264, stream-format={ avc, byte-stream }, alignment={ au, nal }"),
				srcAlways("application/x-rtp, media=video, clock-rate=90000, encoding-name=H264"),
			},
			Properties: []Property{
				{Name: "pt", Type: "uint", Description: "The payload type of the packets", Default: 96, Minimum: intPtr(0), Maximum: intPtr(127)},
				{Name: "config-interval", Type: "int", Description: "Send SPS and PPS insertion interval in seconds (0 = disabled, -1 = send with every IDR frame)", Default: 0, Minimum: intPtr(-1)},
			},
		},
		{
			Name:        "rtph264depay",
			LongName:    "RTP H264 depayloader",
			Description: "Extracts H264 video from RTP packets",
			Klass:       "Codec/Depayloader/Network/RTP",
			Plugin:      "rtp",
			Rank:        RankSecondary,
			PadTemplates: []PadTemplate{
				sinkAlways("application/x-rtp, media=video, clock-rate=90000, encoding-name=H264"),
				srcAlways("video/x-h264, stream-format={ avc, byte-stream }, alignment={ au, nal }"),
			},
			Properties: []Property{},
		},
	}
}
