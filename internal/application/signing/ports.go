package signing

import (
	"context"

	"github.com/tu-usuario/negocio-pro/internal/application/documents"
)

// SignatureProvider es el puerto hacia el proveedor externo de firma
// electrónica. El proveedor hospeda la UI de captura y el archivo firmado;
// aquí solo se consume su contrato request/response documentado.
type SignatureProvider interface {
	// Upload sube el PDF y devuelve el ID externo del documento.
	Upload(ctx context.Context, pdf []byte, filename, signerEmail, signerName string) (string, error)
	// CheckStatus devuelve el estado del documento en el proveedor
	// ("completed" u otro).
	CheckStatus(ctx context.Context, documentID string) (string, error)
	// DownloadSigned devuelve la URL de descarga del artefacto firmado.
	DownloadSigned(ctx context.Context, documentID string) (string, error)
	// EmbedURL construye la URL embebible de firma para un documento.
	EmbedURL(documentID string) string
}

// ProviderStatusCompleted estado terminal reportado por el proveedor.
const ProviderStatusCompleted = "completed"

// DocumentPDFGenerator genera el PDF imprimible desde el modelo renderizable.
type DocumentPDFGenerator interface {
	Generate(ctx context.Context, render *documents.DocumentRender) ([]byte, error)
}

// ArchiveStorage archiva el artefacto firmado en almacenamiento de objetos
// propio y devuelve su URL pública. Best-effort: si falla, la finalización
// persiste la URL del proveedor.
type ArchiveStorage interface {
	ArchiveFromURL(ctx context.Context, objectKey, sourceURL string) (string, error)
}
