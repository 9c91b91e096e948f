// Package gpucore is the backend-neutral boundary between the camera and
// the GPU. The camera only needs to allocate a uniform buffer, upload bytes
// into it and describe a bind group around it; everything else about the
// device stays behind [Adapter].
package gpucore
