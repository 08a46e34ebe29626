/*
Package upload stores image files posted in multipart forms.

A [*Service] enforces how many files one request may carry, how large each may be,
and that each is an image, both by its declared Content-Type and by sniffing its content.
Any violation is a client error; nothing is written unless every file passes.

Saved files are named "<unix millis>-<8 hex chars><ext>" and are reachable under the Service's URL path,
"/upload" by default, once the directory is served statically.
*/
package upload
