package speech

// Audio format requested from Azure and expected by the player.
const audioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching the format above.
const (
	SampleRate   = 24000
	ChannelCount = 1
)
