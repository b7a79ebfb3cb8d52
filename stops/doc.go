/*
Package stops implements the data reconciliation core: detecting unknown
tabular schemas, normalizing heterogeneous rows and objects onto the
canonical Stop record without losing original columns, and serializing the
collection back out using whichever schema was active at import time.

The Session owns the single mutable Stop collection. Imports are atomic:
a failed decode leaves the collection, the active header and the column
mapping untouched. The parser, schema detector, normalizer and serializer
are stateless given their inputs.

Callers must not run two imports or exports concurrently on the same
Session; the package performs no internal locking.
*/
package stops
