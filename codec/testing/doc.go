// Package testing provides standardised tests and benchmarks for codec
// implementations that satisfy the codec.ICodec interface.
//
// The package contains:
//   - testing: A test suite for validating conformance to the ICodec contract
//   - benchmark: Performance tests for encoding and decoding the sample payloads
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() codec.ICodec {
//		return NewMyCodec()
//	}
//
//	// Running the standard test suite
//	testing.RunCodecTests(t, "MyCodec", factory)
//
//	// Running performance benchmarks
//	testing.RunCodecBenchmarks(b, "MyCodec", factory)
package testing
