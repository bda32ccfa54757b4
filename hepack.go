/*
Package hepack provides the data-representation and serialization layer of an
RNS-based homomorphic encryption scheme. It defines canonical in-memory forms
for ring polynomials, the shared immutable context objects that give those
forms meaning, and a compact bit-packed binary codec for transporting
plaintexts, ciphertexts and key material across process and storage
boundaries with minimal overhead.
*/
package hepack
