// Package matrace races one dense linear-algebra computation across three
// interchangeable execution strategies and keeps whichever finished first.
//
// What is matrace?
//
//	A small laboratory for comparing how the same numeric algorithm behaves
//	under different scheduling models:
//		• matrix/   — dense float64 storage + element-wise and multiply kernels
//		• gauss/    — determinant via Gaussian elimination with partial pivoting
//		• eigen/    — eigenvalues & eigenvectors via Gram-Schmidt QR iteration
//		• strategy/ — Sequential, SharedMemory and ProcessIsolated executors
//		• race/     — the comparison harness: run all three, time them, keep
//		              the fastest result that is actually correct
//		• matio/    — named matrix storage and the text file format
//
// Every strategy computes the identical mathematical decomposition; they
// differ only in how the independent units of work (cells, rows, rounds)
// are scheduled. The ProcessIsolated variant ships each unit a serialized
// snapshot of exactly the inputs it needs and reads a fixed-size binary
// payload back over a dedicated byte channel, so no worker ever shares
// memory with another.
//
// Start with race.Runner for the full comparison, or call the strategies
// directly when you already know which model you want.
//
//	go get github.com/katalvlaran/matrace
package matrace
