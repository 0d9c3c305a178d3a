package metrics

// Metric names reported by the codec.
const (
	NameEncoded       = "bch.encoded"
	NameDecoded       = "bch.decoded"
	NameClean         = "bch.clean"
	NameCorrected     = "bch.corrected"
	NameBitsCorrected = "bch.bits_corrected"
	NameUncorrectable = "bch.uncorrectable"
	NameMiscorrected  = "bch.miscorrected"
	NameInvalidLength = "bch.invalid_length"
	NameDecodeTime    = "bch.decode_us"
	NameFlips         = "bch.flips"
)

// CodecMetrics groups the metrics a BCH code updates on every call.
type CodecMetrics struct {
	Encoded       *Counter
	Decoded       *Counter // including failed attempts
	Clean         *Counter
	Corrected     *Counter
	BitsCorrected *Counter
	Uncorrectable *Counter
	Miscorrected  *Counter
	InvalidLength *Counter

	// DecodeTime records decode latency in microseconds.
	DecodeTime *Histogram
	// Flips records how many bits each successful decode flipped.
	Flips *Histogram
}

// NewCodecMetrics registers the codec metrics in r. Calling it twice on the
// same registry returns metrics backed by the same counters.
func NewCodecMetrics(r *Registry) *CodecMetrics {
	return &CodecMetrics{
		Encoded:       r.Counter(NameEncoded, "Messages encoded."),
		Decoded:       r.Counter(NameDecoded, "Decode attempts."),
		Clean:         r.Counter(NameClean, "Received words with all-zero syndromes."),
		Corrected:     r.Counter(NameCorrected, "Received words with at least one bit corrected."),
		BitsCorrected: r.Counter(NameBitsCorrected, "Bits flipped across all corrected words."),
		Uncorrectable: r.Counter(NameUncorrectable, "Words rejected by the error locator solver."),
		Miscorrected:  r.Counter(NameMiscorrected, "Words whose locator roots did not match its degree."),
		InvalidLength: r.Counter(NameInvalidLength, "Inputs of the wrong width."),
		DecodeTime:    r.Histogram(NameDecodeTime, "Decode latency in microseconds.", LatencyBuckets),
		Flips:         r.Histogram(NameFlips, "Bits corrected per successfully decoded word.", FlipBuckets),
	}
}

// DefaultCodec lives in DefaultRegistry and is used by codes constructed
// without an explicit metrics option.
var DefaultCodec = NewCodecMetrics(DefaultRegistry)
