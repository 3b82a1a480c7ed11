package engine

// ----- Drum Models ----- //

// DrumWTStep is one step of a drum model's wavetable. Notes are relative to
// the model's base note unless Absolute is set; a zero waveform keeps the
// previous one.
type DrumWTStep struct {
	Note     int8
	Absolute bool
	Waveform uint8
}

// DrumModel is the static description of a drum sound.
type DrumModel struct {
	Name       string
	BaseNote   uint8
	Waveform   uint8
	AD         uint8
	SR         uint8
	PulseWidth uint16
	GateLength uint8 // ticks, 0 = until note off
	Tuning     int8
	Speed      uint8 // ticks per wavetable step - 1
	Wavetable  []DrumWTStep
}

// DefaultDrumModels ...
var DefaultDrumModels = []DrumModel{
	{
		Name: "BD", BaseNote: 36, Waveform: WaveTriangle, AD: 0x08, SR: 0x08, PulseWidth: 0x800, GateLength: 20, Speed: 2,
		Wavetable: []DrumWTStep{{Note: 12, Waveform: WaveNoise}, {Note: 7, Waveform: WaveTriangle}, {Note: 3}, {Note: 0}, {Note: -3}, {Note: -5}},
	},
	{
		Name: "SD", BaseNote: 52, Waveform: WaveNoise, AD: 0x08, SR: 0x09, PulseWidth: 0x800, GateLength: 30, Speed: 3,
		Wavetable: []DrumWTStep{{Note: 0, Waveform: WavePulse}, {Note: -5}, {Note: 17, Waveform: WaveNoise}, {Note: 14}, {Note: 12}},
	},
	{
		Name: "HH Closed", BaseNote: 96, Waveform: WaveNoise, AD: 0x00, SR: 0x05, PulseWidth: 0x800, GateLength: 5,
	},
	{
		Name: "HH Open", BaseNote: 96, Waveform: WaveNoise, AD: 0x00, SR: 0x0a, PulseWidth: 0x800, GateLength: 60,
	},
	{
		Name: "Tom", BaseNote: 45, Waveform: WaveTriangle, AD: 0x08, SR: 0x09, PulseWidth: 0x800, GateLength: 40, Speed: 4,
		Wavetable: []DrumWTStep{{Note: 5}, {Note: 3}, {Note: 1}, {Note: 0}, {Note: -1}, {Note: -2}},
	},
	{
		Name: "Clap", BaseNote: 72, Waveform: WaveNoise, AD: 0x00, SR: 0x08, PulseWidth: 0x800, GateLength: 25, Speed: 5,
		Wavetable: []DrumWTStep{{Note: 0}, {Note: 24}, {Note: 0, Waveform: WaveNoise}, {Note: 2}},
	},
	{
		Name: "Cowbell", BaseNote: 79, Waveform: WavePulse, AD: 0x00, SR: 0x07, PulseWidth: 0x600, GateLength: 30,
	},
	{
		Name: "Rim", BaseNote: 84, Waveform: WavePulse | WaveTriangle, AD: 0x00, SR: 0x04, PulseWidth: 0x400, GateLength: 3, Speed: 1,
		Wavetable: []DrumWTStep{{Note: 12, Waveform: WaveNoise}, {Note: 0, Waveform: WavePulse | WaveTriangle}},
	},
}
